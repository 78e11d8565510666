package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/kickbomb/prefabs"
	"github.com/milk9111/kickbomb/replay"
	"github.com/milk9111/kickbomb/scenario"
	"github.com/milk9111/kickbomb/sim"
)

func main() {
	name := flag.String("run", "", "scenario name in prefabs/scripts (empty runs all)")
	file := flag.String("file", "", "run a tengo script from this path instead")
	record := flag.String("record", "", "write a zstd JSONL replay of each run into this directory")
	debug := flag.Bool("debug", false, "log hydration retries")
	flag.Parse()

	store, err := prefabs.NewStore()
	if err != nil {
		log.Fatal(err)
	}
	if err := store.LoadAll(); err != nil {
		log.Fatal(err)
	}

	type job struct {
		name string
		src  []byte
	}
	var jobs []job
	switch {
	case *file != "":
		src, err := os.ReadFile(*file)
		if err != nil {
			log.Fatal(err)
		}
		jobs = append(jobs, job{name: *file, src: src})
	case *name != "":
		src, err := scenario.Load(*name)
		if err != nil {
			log.Fatalf("load scenario %s: %v", *name, err)
		}
		jobs = append(jobs, job{name: *name, src: src})
	default:
		names, err := scenario.Names()
		if err != nil {
			log.Fatal(err)
		}
		for _, n := range names {
			src, err := scenario.Load(n)
			if err != nil {
				log.Fatal(err)
			}
			jobs = append(jobs, job{name: n, src: src})
		}
	}

	failed := 0
	for _, j := range jobs {
		if err := runOne(store, j.name, j.src, *record, *debug); err != nil {
			log.Printf("FAIL %s: %v", j.name, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func runOne(store *prefabs.Store, name string, src []byte, recordDir string, debug bool) error {
	cfg := sim.Config{Elements: store, Debug: debug}
	var rec *replay.Recorder
	if recordDir != "" {
		var err error
		rec, err = replay.Create(filepath.Join(recordDir, sanitize(name)+".jsonl.zst"))
		if err != nil {
			return err
		}
		cfg.Recorder = rec
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	res, err := scenario.Run(s, name, src)
	if rec != nil {
		if cerr := rec.Close(); cerr != nil {
			log.Printf("replay %s: %v", name, cerr)
		}
	}
	if res != nil {
		for _, line := range res.Logs {
			log.Printf("%s: %s", name, line)
		}
	}
	if err != nil {
		return err
	}
	fmt.Printf("ok   %s  ticks=%d explosions=%d hits=%d\n", name, res.Ticks, len(res.Explosions), len(res.Damage))
	return nil
}

func sanitize(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', ' ':
			out[i] = '_'
		}
	}
	return string(out)
}
