package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Cents
		fails bool
	}{
		{name: "integer", input: "50", want: 5000},
		{name: "one fraction digit", input: "50.1", want: 5010},
		{name: "two fraction digits", input: "50.00", want: 5000},
		{name: "cent boundary", input: "0.01", want: 1},
		{name: "zero", input: "0", want: 0},
		{name: "negative", input: "-29.99", want: -2999},
		{name: "explicit plus", input: "+3.50", want: 350},
		{name: "whitespace trimmed", input: "  12.34  ", want: 1234},
		{name: "empty", input: "", fails: true},
		{name: "bare sign", input: "-", fails: true},
		{name: "three fraction digits", input: "1.005", fails: true},
		{name: "missing integer part", input: ".50", fails: true},
		{name: "letters", input: "abc", fails: true},
		{name: "scientific notation", input: "1e2", fails: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDecimal(tc.input)
			if tc.fails {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCentsUnmarshalJSON(t *testing.T) {
	var payload struct {
		Amount Cents `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount": 50.10}`), &payload))
	require.Equal(t, Cents(5010), payload.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "29.99"}`), &payload))
	require.Equal(t, Cents(2999), payload.Amount)

	payload.Amount = 0
	require.NoError(t, json.Unmarshal([]byte(`{"amount": null}`), &payload))
	require.Equal(t, Cents(0), payload.Amount)

	require.Error(t, json.Unmarshal([]byte(`{"amount": "1.005"}`), &payload))
}

func TestCentsMarshalJSON(t *testing.T) {
	out, err := json.Marshal(Cents(3000))
	require.NoError(t, err)
	require.Equal(t, "30.00", string(out))

	out, err = json.Marshal(Cents(5))
	require.NoError(t, err)
	require.Equal(t, "0.05", string(out))
}

func TestCentsFormatting(t *testing.T) {
	require.Equal(t, "30.00", Cents(3000).String())
	require.Equal(t, "-0.01", Cents(-1).String())
	require.Equal(t, "R$ 30.00", Cents(3000).BRL())
}

func TestSum(t *testing.T) {
	type dist struct{ available Cents }
	items := []dist{{1000}, {2500}, {1}}

	total := Sum(items, func(d dist) Cents { return d.available })
	require.Equal(t, Cents(3501), total)

	require.Equal(t, Cents(0), Sum(nil, func(d dist) Cents { return d.available }))
}
