package ranktool

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func defaultWeights() model.Weights {
	return model.Weights{Win: 0.4, Close: 0.2, Player: 0.2, Strategy: 0.2}
}

func TestRun(t *testing.T) {
	if err := SetupLogging(false); err != nil {
		t.Fatalf("failed to setup logging: %v", err)
	}
	ctx := context.Background()

	Convey("Given the bundled dataset", t, func() {
		var out bytes.Buffer
		config := &Config{
			Weights:   defaultWeights(),
			SortField: scoring.SortByCaptaincyScore,
		}

		Convey("When the run completes", func() {
			So(Run(ctx, config, &out), ShouldBeNil)
			text := out.String()

			Convey("Then the table and summary are rendered", func() {
				So(text, ShouldContainSubstring, "RANK")
				So(text, ShouldContainSubstring, "CAPTAIN")
				So(text, ShouldContainSubstring, "Best captain:")
				So(text, ShouldContainSubstring, "Average score:")

				// header + 10 data rows
				lines := strings.Split(strings.TrimSpace(text), "\n")
				So(len(lines), ShouldBeGreaterThanOrEqualTo, 11)
			})
		})

		Convey("When top limits the table", func() {
			config.TopN = 3
			So(Run(ctx, config, &out), ShouldBeNil)

			rows := 0
			for _, line := range strings.Split(out.String(), "\n") {
				if strings.HasPrefix(line, "1 ") || strings.HasPrefix(line, "2 ") || strings.HasPrefix(line, "3 ") {
					rows++
				}
			}
			So(rows, ShouldEqual, 3)
		})
	})

	Convey("Given a custom CSV file", t, func() {
		path := filepath.Join(t.TempDir(), "season.csv")
		csv := "Captain,Matches_Played,Matches_Won,Close_Matches_Played,Close_Matches_Won,Player_Improvement_Score,Successful_Strategies,Total_Strategies\n" +
			"Rohit,150,90,40,25,80,100,130\n"
		So(os.WriteFile(path, []byte(csv), 0600), ShouldBeNil)

		var out bytes.Buffer
		config := &Config{
			InputFile: path,
			Weights:   defaultWeights(),
			SortField: scoring.SortByCaptaincyScore,
		}

		Convey("When the run completes", func() {
			So(Run(ctx, config, &out), ShouldBeNil)

			Convey("Then the worked example score is displayed to one decimal", func() {
				So(out.String(), ShouldContainSubstring, "Rohit")
				So(out.String(), ShouldContainSubstring, "67.9")
			})
		})

		Convey("When the sort field is unknown", func() {
			config.SortField = "charisma"
			err := Run(ctx, config, &out)
			So(errors.Is(err, scoring.ErrUnknownSortField), ShouldBeTrue)
		})
	})

	Convey("Given a CSV with a missing column", t, func() {
		path := filepath.Join(t.TempDir(), "broken.csv")
		So(os.WriteFile(path, []byte("Captain,Matches_Played\nRohit,10\n"), 0600), ShouldBeNil)

		var out bytes.Buffer
		config := &Config{
			InputFile: path,
			Weights:   defaultWeights(),
			SortField: scoring.SortByCaptaincyScore,
		}

		Convey("Then the run reports a missing-field error", func() {
			err := Run(ctx, config, &out)
			var missing *scoring.MissingFieldError
			So(errors.As(err, &missing), ShouldBeTrue)
		})
	})

	Convey("Given a nonexistent input path", t, func() {
		var out bytes.Buffer
		config := &Config{
			InputFile: "/does/not/exist.csv",
			Weights:   defaultWeights(),
			SortField: scoring.SortByCaptaincyScore,
		}

		So(Run(ctx, config, &out), ShouldNotBeNil)
	})
}
