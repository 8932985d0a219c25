package main

import (
	"cmp"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sflowg/voltage/plugins/voltage"
	"github.com/sflowg/voltage/runtime"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	plugin := &voltage.VoltagePlugin{}
	err := runtime.InitializeConfig(&plugin.Config, map[string]any{
		"api_key":  os.Getenv("VOLTAGE_API_KEY"),
		"base_url": cmp.Or(os.Getenv("VOLTAGE_BASE_URL"), voltage.DefaultBaseURL),
		"timeout":  cmp.Or(os.Getenv("VOLTAGE_TIMEOUT"), "30000"),
	})
	if err != nil {
		log.Fatalf("Error preparing %s credentials: %v", voltage.CredentialName, err)
	}

	container := runtime.NewContainer()
	if err := container.RegisterPlugin("voltage", plugin); err != nil {
		log.Fatalf("Error registering plugin: %v", err)
	}
	if err := container.Initialize(); err != nil {
		log.Fatalf("Error initializing plugins: %v", err)
	}
	defer container.Shutdown()

	app, err := runtime.NewApp(cmp.Or(os.Getenv("VOLTAGE_NODES_DIR"), "nodes"), container)
	if err != nil {
		log.Fatalf("Error initializing app: %v", err)
	}

	g := gin.Default()
	runtime.NewHttpHandler(app, g)

	port := cmp.Or(os.Getenv("PORT"), "8080")
	logger.Info("Starting server", "port", port, "presets", len(app.Nodes))

	if err := g.Run(":" + port); err != nil {
		log.Fatalf("Error running server: %v", err)
	}
}
