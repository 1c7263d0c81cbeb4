package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmansouri/flightscout/config"
	"github.com/hmansouri/flightscout/models"
	"github.com/hmansouri/flightscout/pipeline"
	"github.com/hmansouri/flightscout/scraper"
)

func searchCMD() *cobra.Command {
	var (
		cfgPath     string
		origin      string
		destination string
		date        string
		bucket      string
		stopover    string
		budget      float64
		query       string
	)

	var search = &cobra.Command{
		Use:   "search",
		Short: "Run one flight search and print the recommendation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if origin == "" || destination == "" || date == "" {
				return errors.New("--from, --to and --date are required")
			}
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}

			pipe, cleanup, err := pipeline.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			req := models.NewSearchRequest(origin, destination, date)

			if query != "" {
				answer, err := pipe.Answer(cmd.Context(), req, query)
				if err != nil {
					return err
				}
				fmt.Println(answer)
				return nil
			}

			b, err := models.ParseTimeBucket(bucket)
			if err != nil {
				return err
			}
			s, err := models.ParseStopoverPref(stopover)
			if err != nil {
				return err
			}
			criteria := models.FilterCriteria{Bucket: b, Stopover: s}
			if budget > 0 {
				criteria.MaxPrice = &budget
			}

			res, err := pipe.Run(cmd.Context(), req, criteria)
			switch {
			case errors.Is(err, pipeline.ErrNoMatch):
				return fmt.Errorf("no flight matches your criteria (%d rows checked)", res.Rows)
			case errors.Is(err, scraper.ErrExtraction):
				return errors.New("no flight data available for this search")
			case err != nil:
				return err
			}

			fmt.Println(res.Recommendation)
			return nil
		},
	}

	search.Flags().StringVar(&origin, "from", "", "departure airport IATA code (e.g. TUN)")
	search.Flags().StringVar(&destination, "to", "", "destination airport IATA code (e.g. ORY)")
	search.Flags().StringVar(&date, "date", "", "flight date (YYYY-MM-DD)")
	search.Flags().StringVar(&bucket, "bucket", "any", "time of day: any, morning, afternoon, evening")
	search.Flags().StringVar(&stopover, "stopover", "any", "stopover preference: any, none, required")
	search.Flags().Float64Var(&budget, "budget", 0, "maximum price (0 = no cap)")
	search.Flags().StringVar(&query, "query", "", "free-text query answered by the agent instead of the fixed filters")
	search.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.json)")

	return search
}
