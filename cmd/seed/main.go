package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"formlens/internal/app"
	"formlens/internal/config"
	"formlens/internal/model"
	"formlens/internal/service"
)

const seededSubmissions = 25

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()

	configDir := os.Getenv("FORMLENS_CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	cfg, err := config.Load(configDir, log)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close(ctx)

	hostID := service.HostID(cfg.Auth.HostUsername)
	form := &model.Form{
		Title:    "Customer Feedback",
		Category: "Customer Feedback Form",
		Fields: []model.FormField{
			{Name: "How would you rate our service overall?", Type: "number"},
			{Name: "What did you like most about your experience?", Type: "text"},
			{Name: "Please describe in as much detail as you can every issue you ran into while using the product this month", Type: "text"},
			{Name: "Full name", Type: "text"},
			{Name: "email", Type: "email", Placeholder: "you@example.com"},
		},
	}

	formID, err := a.FormService.Create(ctx, hostID, form)
	if err != nil {
		log.Fatal("Failed to insert form", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < seededSubmissions; i++ {
		if _, err := a.FormService.RecordSubmission(ctx, formID, syntheticLog(rng, form)); err != nil {
			log.Fatal("Failed to insert submission", zap.Error(err))
		}
	}

	fmt.Printf("Successfully created form '%s' (%s) with %d submissions for host '%s'\n",
		form.Title, formID, seededSubmissions, hostID)
}

// syntheticLog makes the long third question slow and often skipped
func syntheticLog(rng *rand.Rand, form *model.Form) model.SubmissionLog {
	entry := model.SubmissionLog{FormCompleted: true}
	for i, field := range form.Fields {
		event := model.InteractionEvent{
			QuestionID:   i + 1,
			QuestionText: field.Name,
			TimeSpent:    2 + rng.Float64()*8,
		}
		if i == 2 {
			event.TimeSpent = 20 + rng.Float64()*25
			event.Skipped = rng.Intn(3) == 0
		}
		if event.Skipped {
			event.TimeSpent = 0
			entry.FormCompleted = false
		}
		entry.Responses = append(entry.Responses, event)
	}
	return entry
}
