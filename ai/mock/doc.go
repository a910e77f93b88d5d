// Package mock provides test double implementations of AI service interfaces.
//
// The mocks let pipeline and search tests run without a model server and give
// deterministic output:
//
//   - MockEmbedder: deterministic vectors derived from an FNV hash of the text
//   - MockSummarizer: echoes the passage it was given
//   - MockEntityExtractor: treats 2-5 letter uppercase words as tickers
//   - MockSentimentScorer: counts bullish and bearish keywords
//   - MockProvider: aggregates the above
//
// Every mock exposes a Func field for custom behavior and a CallCount for
// assertions:
//
//	provider := mock.NewMockProvider().(*mock.MockProvider)
//	provider.GetMockSummarizer().SummarizeFunc = func(ctx context.Context, q, p string, n int) (string, error) {
//	    return "", errors.New("offline")
//	}
package mock
