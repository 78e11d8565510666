package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/kickbomb/levels"
	"github.com/milk9111/kickbomb/prefabs"
	"github.com/milk9111/kickbomb/replay"
	"github.com/milk9111/kickbomb/sim"
)

func main() {
	levelName := flag.String("level", "arena.json", "level name in levels/")
	debug := flag.Bool("debug", false, "log hydration retries")
	watch := flag.String("watch", "", "project root to watch for element changes (empty disables hot reload)")
	record := flag.String("record", "", "write a zstd JSONL replay to this path")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	store, err := prefabs.NewStore()
	if err != nil {
		log.Fatal(err)
	}
	if err := store.LoadAll(); err != nil {
		log.Fatal(err)
	}
	if *watch != "" {
		watcher, err := store.Watch(*watch)
		if err != nil {
			log.Fatalf("watch %s: %v", *watch, err)
		}
		defer watcher.Close()
	}

	cfg := sim.Config{Elements: store, Debug: *debug}
	if *record != "" {
		rec, err := replay.Create(*record)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("replay: %v", err)
			}
		}()
		cfg.Recorder = rec
	}

	s, err := sim.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	lvl, err := levels.LoadLevelFromFS(*levelName)
	if err != nil {
		log.Fatalf("failed to load level %s: %v", *levelName, err)
	}
	if err := s.LoadLevel(lvl); err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	width, height := lvl.PixelSize()
	ebiten.SetWindowSize(int(width*windowScale), int(height*windowScale))
	ebiten.SetWindowTitle("kickbomb sandbox")
	ebiten.SetTPS(int(time.Second / s.TickDuration()))

	if err := ebiten.RunGame(NewGame(s)); err != nil {
		log.Fatal(err)
	}
}
