package main

import (
	"github.com/polashmiya/polash-dairy-api/config"
	"github.com/polashmiya/polash-dairy-api/models"
	"github.com/polashmiya/polash-dairy-api/routes"
	"github.com/polashmiya/polash-dairy-api/storage"
	"github.com/polashmiya/polash-dairy-api/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Comment{})

	objects, err := storage.NewMinIOStorage(cfg)
	if err != nil {
		utils.Sugar.Fatalf("object storage init failed: %v", err)
	}

	r := routes.SetupRouter(db, objects)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
