package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
)

type predictOptions struct {
	homePlanet   string
	destination  string
	cryoSleep    bool
	vip          bool
	age          string
	roomService  string
	foodCourt    string
	shoppingMall string
	spa          string
	vrDeck       string
	asJSON       bool
	breakdown    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := prediction.DefaultPassenger()
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict whether a Spaceship Titanic passenger was transported",
		Long: `Scores one passenger with the rule-based model and prints the verdict,
confidence and analysis summary. Numeric flags accept any text; values that
do not start with a number count as 0.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.record()
			if err != nil {
				return err
			}
			return writePrediction(cmd.OutOrStdout(), record, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.homePlanet, "home-planet", string(defaults.HomePlanet), "Home planet (Earth, Europa, Mars)")
	f.StringVar(&opts.destination, "destination", string(defaults.Destination), "Destination (TRAPPIST-1e, 55 Cancri e, PSO J318.5-22)")
	f.BoolVar(&opts.cryoSleep, "cryo-sleep", defaults.CryoSleep, "Passenger was in cryo sleep")
	f.BoolVar(&opts.vip, "vip", defaults.VIP, "Passenger paid for VIP service")
	f.StringVar(&opts.age, "age", fmt.Sprint(defaults.Age), "Age in years")
	f.StringVar(&opts.roomService, "room-service", "0", "Room service spending")
	f.StringVar(&opts.foodCourt, "food-court", "0", "Food court spending")
	f.StringVar(&opts.shoppingMall, "shopping-mall", "0", "Shopping mall spending")
	f.StringVar(&opts.spa, "spa", "0", "Spa spending")
	f.StringVar(&opts.vrDeck, "vr-deck", "0", "VR deck spending")
	f.BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	f.BoolVar(&opts.breakdown, "breakdown", false, "Include the per-rule score contributions")

	return cmd
}

func (o *predictOptions) record() (prediction.PassengerRecord, error) {
	planet, err := prediction.ParseHomePlanet(o.homePlanet)
	if err != nil {
		return prediction.PassengerRecord{}, err
	}
	dest, err := prediction.ParseDestination(o.destination)
	if err != nil {
		return prediction.PassengerRecord{}, err
	}

	return prediction.PassengerRecord{
		HomePlanet:   planet,
		CryoSleep:    o.cryoSleep,
		Destination:  dest,
		Age:          prediction.CoerceInt(o.age),
		VIP:          o.vip,
		RoomService:  prediction.CoerceInt(o.roomService),
		FoodCourt:    prediction.CoerceInt(o.foodCourt),
		ShoppingMall: prediction.CoerceInt(o.shoppingMall),
		Spa:          prediction.CoerceInt(o.spa),
		VRDeck:       prediction.CoerceInt(o.vrDeck),
	}, nil
}

type output struct {
	Passenger prediction.PassengerRecord  `json:"passenger"`
	Result    prediction.PredictionResult `json:"result"`
	Summary   prediction.Summary          `json:"summary"`
	Breakdown *prediction.Breakdown       `json:"breakdown,omitempty"`
}

func writePrediction(w io.Writer, record prediction.PassengerRecord, opts *predictOptions) error {
	breakdown := prediction.Score(record)
	out := output{
		Passenger: record,
		Result:    breakdown.Result(),
		Summary:   prediction.Summarize(record),
	}
	if opts.breakdown {
		out.Breakdown = &breakdown
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	verdict, glyph, negation := "NOT TRANSPORTED", "✗", "not "
	if out.Result.Transported {
		verdict, glyph, negation = "TRANSPORTED", "✓", ""
	}

	fmt.Fprintf(w, "%s %s\n", glyph, verdict)
	fmt.Fprintf(w, "The passenger was %saffected by the spacetime anomaly\n", negation)
	fmt.Fprintf(w, "Confidence Score: %d%%\n\n", out.Result.Confidence)
	fmt.Fprintln(w, "Analysis:")
	fmt.Fprintf(w, "  • CryoSleep status: %s\n", out.Summary.CryoSleepStatus)
	fmt.Fprintf(w, "  • Age group: %s\n", out.Summary.AgeGroup)
	fmt.Fprintf(w, "  • Total spending: %s\n", out.Summary.SpendingLabel)
	fmt.Fprintf(w, "  • VIP status: %s\n", out.Summary.VIPStatus)

	if out.Breakdown != nil {
		fmt.Fprintln(w, "\nContributions:")
		for _, c := range out.Breakdown.Contributions {
			fmt.Fprintf(w, "  %-24s %+.2f\n", c.Name, c.Delta)
		}
		fmt.Fprintf(w, "  %-24s %.2f\n", "probability", out.Breakdown.Probability)
	}
	return nil
}
