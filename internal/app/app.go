package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/blog-web/internal/cache"
	"github.com/example/blog-web/internal/config"
	"github.com/example/blog-web/internal/db"
	"github.com/example/blog-web/internal/models"
	"github.com/example/blog-web/internal/repository"
	"github.com/example/blog-web/internal/search"
	"github.com/example/blog-web/internal/service"
	"github.com/example/blog-web/internal/transport/http"
)

type Application struct {
	Config *config.Config
	DB     *db.Database
	Cache  *cache.PostCache
	Search *search.Elastic
	Router http.Router
}

func Initialize() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if err := database.AutoMigrate(&models.Post{}, &models.ActivityLog{}); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	postCache, err := cache.NewPostCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	es, err := search.NewElastic(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := es.EnsurePostsIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure ES index: %w", err)
	}

	svc := service.NewPostService(repository.NewPostRepository(database), postCache, es)
	r := http.NewRouter(svc, "templates/*.html", "./static")

	return &Application{
		Config: cfg,
		DB:     database,
		Cache:  postCache,
		Search: es,
		Router: r,
	}, nil
}

func (a *Application) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
}
