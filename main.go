package main

import (
	"context"
	"time"

	"github.com/hydrocal/hydrocal/config"
	"github.com/hydrocal/hydrocal/models"
	"github.com/hydrocal/hydrocal/routes"
	"github.com/hydrocal/hydrocal/services"
	"github.com/hydrocal/hydrocal/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{})

	store := services.NewTrackerStore(services.NewRedisKV(utils.GetRedis()))
	engine := services.NewStreakEngine(store, services.SystemClock(), utils.Sugar)
	recorder := services.NewProgressRecorder(store, engine, services.SystemClock())

	var recipes *services.RecipeService
	if cfg.LLMAPIKey != "" {
		var err error
		recipes, err = services.NewRecipeService(cfg)
		if err != nil {
			utils.Sugar.Warnf("recipe service disabled: %v", err)
		}
	} else {
		utils.Sugar.Info("recipe service disabled: no LLM API key configured")
	}

	// Best-effort day-boundary sweep; every request reconciles on its own.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	goalLookup := func(ctx context.Context, userID uint) (models.Goals, error) {
		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			return models.Goals{}, err
		}
		return utils.DailyGoals(user), nil
	}
	sweeper := services.NewMidnightSweeper(store, engine, goalLookup, time.Duration(cfg.SweepIntervalMin)*time.Minute, utils.Sugar)
	go sweeper.Run(sweepCtx)

	r := routes.SetupRouter(db, store, engine, recorder, recipes)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
