package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/widgetd/internal/config"
	"github.com/jask/widgetd/internal/logutil"
	"github.com/jask/widgetd/internal/service"
	"github.com/jask/widgetd/internal/spatial"
	"github.com/jask/widgetd/internal/store"
	"github.com/jask/widgetd/internal/tui"
)

func main() {
	var (
		initConfig = flag.Bool("init-config", false, "write the effective config to the config path and exit")
		reset      = flag.Bool("reset", false, "delete every stored widget and exit")
		pageSize   = flag.Int("page", 0, "widgets per page (default: widget.page_default_size)")
		area       areaFlag
	)
	flag.Var(&area, "area", "only show widgets inside x,y,width,height")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *initConfig {
		if err := config.Save(cfg, config.Path()); err != nil {
			log.Fatalf("save config: %v", err)
		}
		fmt.Println("wrote", config.Path())
		return
	}

	if cfg.Storage.Backend == config.BackendMemory {
		log.Printf("warn: memory backend starts empty; set storage.backend to inspect persisted widgets")
	}

	st, err := store.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	filter, err := spatial.New(cfg.Filter.Engine)
	if err != nil {
		log.Fatalf("filter: %v", err)
	}
	opts := service.OptionsFromConfig(cfg.Widget)
	opts.Filter = filter
	opts.Logger = logutil.Discard
	svc := service.NewWidgetService(st, opts)

	if *reset {
		if _, err := svc.Reset(context.Background()); err != nil {
			log.Fatalf("reset: %v", err)
		}
		fmt.Println("widgets cleared")
		return
	}

	size := cfg.Widget.PageDefaultSize
	if *pageSize > 0 {
		size = min(*pageSize, cfg.Widget.PageMaxSize)
	}

	p := tea.NewProgram(tui.New(context.Background(), svc, size, area.params), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
