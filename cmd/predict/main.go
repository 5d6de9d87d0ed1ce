package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/prathibha999-pd/realvalueAI/internal/display"
	"github.com/prathibha999-pd/realvalueAI/internal/env"
	"github.com/prathibha999-pd/realvalueAI/internal/validate"
	"github.com/prathibha999-pd/realvalueAI/valuation"
)

// One-shot prediction against the valuation backend, for smoke-testing a
// deployment without the gateway in the middle.
func main() {
	_ = godotenv.Load()

	sqftFlag := flag.String("sqft", "", "square footage (required)")
	location := flag.String("location", "Colombo 3", "property location")
	propertyType := flag.String("type", "Office Space", "property type")
	status := flag.String("status", "Rent", "transaction status (Rent or Sale)")
	flag.Parse()

	sqft, reason := validate.Sqft(*sqftFlag)
	if reason != "" {
		fmt.Fprintf(os.Stderr, "invalid -sqft %q: %s\n", *sqftFlag, reason)
		os.Exit(2)
	}

	client := valuation.NewClient(env.Get("VALUATION_API_URL", "http://localhost:8000"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := client.Predict(ctx, valuation.PredictRequest{
		Sqft:         sqft,
		Location:     *location,
		PropertyType: *propertyType,
		Status:       *status,
	})
	if err != nil {
		log.Fatalf("prediction failed: %v", err)
	}

	fmt.Printf("Predicted price : %s\n", display.Currency(res.PredictedPrice))
	fmt.Printf("Base value      : %s\n", display.Currency(res.BaseValue))
	if !res.LocationKnown {
		fmt.Println("Note: location was not seen at training time; the estimate leans on the remaining features.")
	}
	fmt.Println("Top feature impacts:")
	for _, f := range res.TopFeatures {
		sign := "+"
		if f.Impact < 0 {
			sign = "-"
		}
		fmt.Printf("  %-28s %s%s\n", display.FeatureLabel(f.Feature), sign, display.Currency(math.Abs(f.Impact)))
	}
}
