package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Sentiment
		wantErr bool
	}{
		{name: "plain positive", raw: "positive", want: SentimentPositive},
		{name: "plain negative", raw: "negative", want: SentimentNegative},
		{name: "uppercase", raw: "Positive", want: SentimentPositive},
		{name: "surrounding whitespace", raw: "  negative\n", want: SentimentNegative},
		{name: "single quoted", raw: "'positive'", want: SentimentPositive},
		{name: "double quoted", raw: "\"negative\"", want: SentimentNegative},
		{name: "trailing period", raw: "positive.", want: SentimentPositive},
		{name: "neutral rejected", raw: "neutral", wantErr: true},
		{name: "empty rejected", raw: "", wantErr: true},
		{name: "sentence rejected", raw: "the sentiment is positive", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSentiment(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
