package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

var (
	ErrAnalyzerNotConfigured = errors.New("food analyzer not configured")
	ErrAnalysisFailed        = errors.New("could not analyze")
)

const foodPrompt = `You are a nutritionist. Estimate calories and macronutrients (protein, carbs, fat, fiber) for: %q.
Assume a standard serving when no quantity is given.
Reply ONLY with a JSON object using integers:
{"name": "short dish name", "calories": 0, "protein": 0, "carbs": 0, "fat": 0, "fiber": 0}`

// FoodAnalyzer asks an OpenAI-compatible chat endpoint to estimate macros, walking Models in order until one answers.
type FoodAnalyzer struct {
	URL     string
	APIKey  string
	Models  []string
	Timeout time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewFoodAnalyzer(url, apiKey string, models []string) *FoodAnalyzer {
	return &FoodAnalyzer{URL: url, APIKey: apiKey, Models: models, Timeout: 30 * time.Second}
}

func (a *FoodAnalyzer) Analyze(ctx context.Context, text string) (*models.FoodEstimate, error) {
	if a == nil || a.URL == "" || a.APIKey == "" || len(a.Models) == 0 {
		return nil, ErrAnalyzerNotConfigured
	}
	prompt := fmt.Sprintf(foodPrompt, text)
	for _, model := range a.Models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reply, err := a.complete(model, prompt)
		if err != nil {
			log.Warnw("food analysis model failed", "model", model, "error", err)
			continue
		}
		estimate, err := ParseFoodEstimate(reply)
		if err != nil {
			log.Warnw("food analysis reply unusable", "model", model, "error", err)
			continue
		}
		return estimate, nil
	}
	return nil, ErrAnalysisFailed
}

func (a *FoodAnalyzer) complete(model, prompt string) (string, error) {
	agent := fiber.Post(a.URL)
	agent.Set("Authorization", "Bearer "+a.APIKey)
	agent.JSON(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "system", Content: prompt}},
		Temperature: 0.1,
	})
	agent.Timeout(a.Timeout)
	if err := agent.Parse(); err != nil {
		return "", err
	}

	var parsed chatResponse
	code, body, errs := agent.Struct(&parsed)
	if len(errs) > 0 {
		return "", errs[0]
	}
	if code < 200 || code >= 300 {
		return "", fmt.Errorf("request failed with status %d: %s", code, string(body))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

// ParseFoodEstimate pulls the first {...} object out of a model reply, tolerating markdown fences and chatter.
func ParseFoodEstimate(reply string) (*models.FoodEstimate, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return nil, errors.New("no JSON object in reply")
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, err
	}
	name, _ := raw["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("missing name")
	}
	calories, ok := ParseNumber(raw["calories"])
	if !ok {
		return nil, errors.New("missing calories")
	}
	macro := func(key string) float64 {
		v, _ := ParseNumber(raw[key])
		return math.Round(math.Max(0, v))
	}
	return &models.FoodEstimate{
		Name:     name,
		Calories: math.Round(math.Max(0, calories)),
		Protein:  macro("protein"),
		Carbs:    macro("carbs"),
		Fat:      macro("fat"),
		Fiber:    macro("fiber"),
	}, nil
}
