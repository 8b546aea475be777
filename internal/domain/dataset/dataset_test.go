package dataset_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/skipperlabs/skipper/internal/domain/dataset"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const validCSV = `Captain,Matches_Played,Matches_Won,Close_Matches_Played,Close_Matches_Won,Player_Improvement_Score,Successful_Strategies,Total_Strategies
Ruturaj Gaikwad,150,90,40,25,80,100,130
Pat Cummins,85,45,18,9,72.5,58,70
`

func TestDecode(t *testing.T) {
	Convey("Given a well-formed CSV input", t, func() {
		records, err := dataset.Decode(strings.NewReader(validCSV))

		Convey("Then every row decodes into a record", func() {
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)
			So(records[0].Name, ShouldEqual, "Ruturaj Gaikwad")
			So(records[0].MatchesPlayed, ShouldEqual, 150)
			So(records[0].MatchesWon, ShouldEqual, 90)
			So(records[0].CloseMatchesPlayed, ShouldEqual, 40)
			So(records[0].CloseMatchesWon, ShouldEqual, 25)
			So(records[0].PlayerImprovementScore, ShouldEqual, 80)
			So(records[0].SuccessfulStrategies, ShouldEqual, 100)
			So(records[0].TotalStrategies, ShouldEqual, 130)
			So(records[1].PlayerImprovementScore, ShouldEqual, 72.5)
		})
	})

	Convey("Given a CSV with reordered and extra columns", t, func() {
		input := `Team,Total_Strategies,Captain,Matches_Won,Matches_Played,Close_Matches_Won,Close_Matches_Played,Successful_Strategies,Player_Improvement_Score
CSK,130,Ruturaj Gaikwad,90,150,25,40,100,80
`
		records, err := dataset.Decode(strings.NewReader(input))

		Convey("Then binding is by name, not position", func() {
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Name, ShouldEqual, "Ruturaj Gaikwad")
			So(records[0].MatchesPlayed, ShouldEqual, 150)
			So(records[0].TotalStrategies, ShouldEqual, 130)
		})
	})

	Convey("Given a CSV missing required columns", t, func() {
		input := `Captain,Matches_Played,Close_Matches_Played,Close_Matches_Won,Player_Improvement_Score,Successful_Strategies
Someone,10,5,2,50,3
`
		records, err := dataset.Decode(strings.NewReader(input))

		Convey("Then all missing names are reported together", func() {
			var mfe *scoring.MissingFieldError
			So(errors.As(err, &mfe), ShouldBeTrue)
			So(mfe.Fields, ShouldResemble, []string{"Matches_Won", "Total_Strategies"})
			So(records, ShouldBeNil)
		})
	})

	Convey("Given column names in the wrong case", t, func() {
		input := `captain,matches_played,matches_won,close_matches_played,close_matches_won,player_improvement_score,successful_strategies,total_strategies
Someone,10,5,4,2,50,3,6
`
		_, err := dataset.Decode(strings.NewReader(input))

		Convey("Then the contract is case-sensitive and the header is rejected", func() {
			var mfe *scoring.MissingFieldError
			So(errors.As(err, &mfe), ShouldBeTrue)
			So(mfe.Fields, ShouldHaveLength, 8)
		})
	})

	Convey("Given a non-numeric cell", t, func() {
		input := `Captain,Matches_Played,Matches_Won,Close_Matches_Played,Close_Matches_Won,Player_Improvement_Score,Successful_Strategies,Total_Strategies
Someone,ten,5,4,2,50,3,6
`
		records, err := dataset.Decode(strings.NewReader(input))

		Convey("Then decoding fails with a ProcessingError naming row and column", func() {
			var pe *scoring.ProcessingError
			So(errors.As(err, &pe), ShouldBeTrue)
			So(pe.Error(), ShouldContainSubstring, "Matches_Played")
			So(pe.Error(), ShouldContainSubstring, "row 1")
			So(records, ShouldBeNil)
		})
	})

	Convey("Given a header-only input", t, func() {
		input := "Captain,Matches_Played,Matches_Won,Close_Matches_Played,Close_Matches_Won,Player_Improvement_Score,Successful_Strategies,Total_Strategies\n"
		records, err := dataset.Decode(strings.NewReader(input))

		Convey("Then the result is empty without error", func() {
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})

	Convey("Given an empty input", t, func() {
		_, err := dataset.Decode(strings.NewReader(""))

		Convey("Then it is treated as missing every column", func() {
			var mfe *scoring.MissingFieldError
			So(errors.As(err, &mfe), ShouldBeTrue)
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the embedded default dataset", t, func() {
		records, err := dataset.Default()

		Convey("Then it decodes into the bundled ten captains", func() {
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 10)
			So(records[0].Name, ShouldEqual, "Ruturaj Gaikwad")
			So(records[9].Name, ShouldEqual, "Pat Cummins")
		})
	})
}
