package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-market/internal/config"
	"github.com/iliyamo/online-market/internal/database"
	"github.com/iliyamo/online-market/internal/handler"
	"github.com/iliyamo/online-market/internal/queue"
	"github.com/iliyamo/online-market/internal/repository"
	"github.com/iliyamo/online-market/internal/router"
	"github.com/iliyamo/online-market/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; middleware degrades to pass-through without it.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db)
	reviews := repository.NewReviewRepo(db)
	carts := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users),
		Categories: handler.NewCategoryHandler(categories),
		Products:   handler.NewProductHandler(products, categories),
		Reviews:    handler.NewReviewHandler(reviews, products),
		Carts:      handler.NewCartHandler(carts, products),
		Orders:     handler.NewOrderHandler(orders, service.NewQueuePublisher()),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg.JWTSecret, rdb)

	// Drains order.placed into logs/orders.log; reconnects on its own.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
