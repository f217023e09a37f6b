package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"pitchpilot/config"
	"pitchpilot/db"
	"pitchpilot/models"
	"pitchpilot/services"

	"github.com/joho/godotenv"
)

// pitchcli is a terminal client for the pitch-analysis flows: sign in,
// submit a pitch, review the dashboard, and practice investor Q&A.
func main() {
	godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	provider, err := services.NewIdentityProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to set up identity provider: %v", err)
	}

	store := services.NewSessionStore(provider)
	client := services.NewAnalysisClient(cfg.AnalysisAPI.BaseURL, store.TokenCache())

	// Follow the session-state stream; the prompt reacts to the latest
	// value rather than any global.
	subID, states := store.Subscribe()
	defer store.Unsubscribe(subID)
	go func() {
		for state := range states {
			if state.User != nil {
				fmt.Printf("\n[session] signed in as %s\n", state.User.Email)
			} else {
				fmt.Println("\n[session] signed out")
			}
		}
	}()

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	if err := authenticate(ctx, reader, store); err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}

	for {
		fmt.Println("\n1) Analyze a pitch  2) Dashboard  3) Practice Q&A  4) Quit")
		switch prompt(reader, "> ") {
		case "1":
			runAnalyze(ctx, reader, store, client)
		case "2":
			runDashboard(ctx, store)
		case "3":
			runQA(ctx, reader, store, client)
		case "4":
			store.Logout(ctx)
			return
		}
	}
}

func authenticate(ctx context.Context, reader *bufio.Reader, store *services.Store) error {
	mode := prompt(reader, "login or signup? ")
	email := prompt(reader, "email: ")
	password := prompt(reader, "password: ")

	if mode == "signup" {
		confirm := prompt(reader, "confirm password: ")
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
		if len(password) < 6 {
			return fmt.Errorf("password must be at least 6 characters")
		}
		return store.SignUp(ctx, email, password)
	}
	return store.Login(ctx, email, password)
}

func runAnalyze(ctx context.Context, reader *bufio.Reader, store *services.Store, client *services.AnalysisClient) {
	user := store.CurrentUser()

	idea := prompt(reader, "startup idea: ")
	industry := prompt(reader, "industry: ")
	if strings.TrimSpace(idea) == "" || strings.TrimSpace(industry) == "" {
		fmt.Println("Please fill in all required fields")
		return
	}
	stage := promptDefault(reader, "stage [seed]: ", models.StageSeed)
	persona := promptDefault(reader, "persona [saas]: ", models.PersonaSaaS)

	submission := models.PitchSubmission{
		StartupIdea:     idea,
		Industry:        industry,
		InvestorStage:   stage,
		InvestorPersona: persona,
		UserID:          user.UserID,
	}

	fmt.Println("Analyzing your pitch...")
	result, err := client.AnalyzePitch(ctx, submission)
	if err != nil {
		fmt.Println("Failed to analyze pitch. Please try again.")
		log.Printf("analyze error: %v", err)
		return
	}

	pitchID, err := db.SavePitchAnalysis(ctx, user.UserID, submission, *result)
	if err != nil {
		fmt.Println("Analysis succeeded but could not be saved.")
		log.Printf("save error: %v", err)
		return
	}

	fmt.Printf("\nOverall score: %.0f/100 (pitch %s)\n", result.OverallScore, pitchID)
	for section, score := range result.SectionScores {
		fmt.Printf("  %-20s %.0f\n", section, score)
	}
	for i, rec := range result.Recommendations {
		fmt.Printf("  %d. %s\n", i+1, rec)
	}
}

func runDashboard(ctx context.Context, store *services.Store) {
	user := store.CurrentUser()
	pitches, err := db.GetUserPitches(ctx, user.UserID)
	if err != nil {
		fmt.Println("Failed to load pitch history")
		return
	}
	if len(pitches) == 0 {
		fmt.Println("No pitches yet")
		return
	}
	for _, pitch := range pitches {
		fmt.Printf("%s  %-15s %.0f/100  %s\n",
			pitch.ID.Hex(), pitch.Industry, pitch.AnalysisResult.OverallScore,
			pitch.CreatedAt.Format("2006-01-02"))
	}
}

func runQA(ctx context.Context, reader *bufio.Reader, store *services.Store, client *services.AnalysisClient) {
	pitchID := prompt(reader, "pitch id: ")
	user := store.CurrentUser()

	flow := services.GetFlowManager().Start(user.UserID, pitchID, client, services.MongoFlowStore{})
	fmt.Println("Generating investor questions...")
	if err := flow.Load(ctx); err != nil {
		fmt.Println("Failed to load Q&A session")
		log.Printf("load error: %v", err)
		return
	}

	for flow.State() != services.FlowComplete {
		question := flow.CurrentQuestion()
		fmt.Printf("\nQ%d/%d [%s, %s]: %s\n", flow.Index()+1, flow.QuestionCount(),
			question.Category, question.Difficulty, question.Question)

		answer := prompt(reader, "your answer: ")
		evaluation, err := flow.SubmitAnswer(ctx, answer)
		if err != nil {
			fmt.Printf("%v\n", err)
			continue
		}

		fmt.Printf("Score: %.0f/10  %s\n", evaluation.Score, evaluation.Feedback)
		for _, tip := range evaluation.ImprovementTips {
			fmt.Printf("  tip: %s\n", tip)
		}
		if _, err := flow.Advance(); err != nil {
			log.Printf("advance error: %v", err)
			return
		}
	}

	fmt.Printf("\nSession complete. Average score: %.1f/10\n", flow.AverageScore())
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptDefault(reader *bufio.Reader, label, fallback string) string {
	if value := prompt(reader, label); value != "" {
		return value
	}
	return fallback
}
