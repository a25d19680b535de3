package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/traverse/actor"
	"github.com/milk9111/traverse/config"
	"github.com/milk9111/traverse/cue"
	"github.com/milk9111/traverse/debugdraw"
)

func main() {
	configPath := flag.String("config", "", "character YAML (defaults to the built-in climber)")
	levelPath := flag.String("level", "", "level YAML (defaults to the built-in courtyard)")
	backend := flag.String("backend", "box", "collision backend: box (3D boxes) or cp (side view)")
	view := flag.Bool("view", false, "open a window instead of running headless")
	top := flag.Bool("top", false, "top-down view instead of side view")
	watch := flag.Bool("watch", false, "reload the character config when it changes")
	flag.Parse()

	spec, err := config.LoadCharacter(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	level, err := config.LoadLevel(*levelPath)
	if err != nil {
		log.Fatal(err)
	}

	var voice actor.Voice = cue.Log{Prefix: "traverse: "}
	if *view && len(spec.Cues) > 0 {
		voice = loadCues(spec)
	}

	var sink debugdraw.Sink
	overlay := &debugdraw.Overlay{View: debugdraw.View{Zoom: 48}}
	if *top {
		overlay.View.Plane = debugdraw.PlaneTop
	}
	if *view {
		sink = overlay
	}

	s, err := newSim(spec, level, *backend, voice, sink)
	if err != nil {
		log.Fatal(err)
	}

	var watcher *config.Watcher
	if *watch && *configPath != "" {
		watcher, err = config.NewWatcher(filepath.Dir(*configPath))
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
	}

	if !*view {
		s.run(watcher, *configPath)
		return
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("traverse: " + level.Name)
	g := &viewer{sim: s, overlay: overlay, watcher: watcher, configPath: *configPath}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func loadCues(spec config.CharacterSpec) actor.Voice {
	bank := cue.NewBank()
	ctx := cue.Context()
	for _, c := range spec.Cues {
		data, err := config.LoadAsset(c.Path)
		if err != nil {
			log.Printf("traverse: cue %s: %v", c.Name, err)
			continue
		}
		if err := bank.Load(ctx, c.Name, c.Path, data, c.Volume); err != nil {
			log.Printf("traverse: %v", err)
		}
	}
	return bank
}
