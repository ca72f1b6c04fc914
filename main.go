package main

import (
	"github.com/cataloghq/catalog_service/config"
	"github.com/cataloghq/catalog_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
