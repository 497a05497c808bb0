// Package insights holds the fixed model insight figures shown on the
// secondary view. None of these values are computed at runtime.
package insights

import (
	"fmt"
	"sort"
)

// FeatureImportance is one bar of the importance chart
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Display    string  `json:"display"`
}

// Metric is a headline number with its caption
type Metric struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Report is the full insights payload
type Report struct {
	Model             string              `json:"model"`
	Accuracy          float64             `json:"accuracy"`
	F1Score           float64             `json:"f1_score"`
	DatasetSize       int                 `json:"dataset_size"`
	Metrics           []Metric            `json:"metrics"`
	FeatureImportance []FeatureImportance `json:"feature_importance"`
	KeyInsights       []string            `json:"key_insights"`
}

var importances = []struct {
	feature    string
	importance float64
}{
	{"CryoSleep", 0.285},
	{"Age", 0.142},
	{"RoomService", 0.098},
	{"FoodCourt", 0.087},
	{"Spa", 0.076},
	{"VRDeck", 0.071},
	{"ShoppingMall", 0.065},
	{"HomePlanet", 0.058},
}

// Get returns the insights report
func Get() Report {
	features := make([]FeatureImportance, 0, len(importances))
	for _, fi := range importances {
		features = append(features, FeatureImportance{
			Feature:    fi.feature,
			Importance: fi.importance,
			Display:    fmt.Sprintf("%.1f%%", fi.importance*100),
		})
	}

	return Report{
		Model:       "Random Forest Classifier",
		Accuracy:    79.87,
		F1Score:     0.799,
		DatasetSize: 8693,
		Metrics: []Metric{
			{Title: "Model Accuracy", Value: "79.87%", Description: "Random Forest Classifier performance on test data"},
			{Title: "F1 Score", Value: "0.799", Description: "Balanced precision and recall metric"},
			{Title: "Dataset Size", Value: "8,693", Description: "Total passengers analyzed after preprocessing"},
		},
		FeatureImportance: features,
		KeyInsights: []string{
			"CryoSleep is the most predictive feature (28.5% importance)",
			"Age significantly affects transportation probability",
			"Spending patterns on amenities provide valuable signals",
			"Home planet and destination have moderate impact",
		},
	}
}

// TopFeatures returns the n most important features, highest first
func (r Report) TopFeatures(n int) []FeatureImportance {
	sorted := append([]FeatureImportance(nil), r.FeatureImportance...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Importance > sorted[j].Importance
	})
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
