package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-ops-backend/config"
	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
)

// fakeModel returns canned output and records the prompts it saw.
type fakeModel struct {
	text     string
	err      error
	video    Video
	requests []TextRequest
	videoReq *VideoRequest
}

func (f *fakeModel) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	f.requests = append(f.requests, req)
	if _, ok := ctx.Deadline(); !ok {
		return "", errors.New("expected a deadline")
	}
	return f.text, f.err
}

func (f *fakeModel) GenerateVideo(_ context.Context, req VideoRequest) (Video, error) {
	f.videoReq = &req
	return f.video, f.err
}

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newGateway(m Model) *Gateway {
	return NewGateway(m, config.AIConfig{Timeout: time.Second, VideoTimeout: time.Second}, zerolog.Nop())
}

func TestGateway_NotConfigured(t *testing.T) {
	g := NewGateway(nil, config.AIConfig{}, zerolog.Nop())
	assert.False(t, g.Configured())

	_, err := g.MarketPrediction(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = g.CoPilotSuggestions(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = g.GenerateVideo(context.Background(), VideoRequest{Prompt: "a bot"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGateway_TextOperations(t *testing.T) {
	m := &fakeModel{text: "  Energy demand will rise.  "}
	g := newGateway(m)
	ctx := context.Background()
	products := inventory.SeedProducts()
	bots := fleet.SeedBots(now)

	out, err := g.MarketPrediction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Energy demand will rise.", out)

	_, err = g.Chat(ctx, "How many bots are charging?", products, bots)
	require.NoError(t, err)
	last := m.requests[len(m.requests)-1]
	assert.Contains(t, last.System, "AI Warehouse")
	assert.Contains(t, last.Prompt, "BOT-03")
	assert.Contains(t, last.Prompt, "How many bots are charging?")
	assert.NotContains(t, last.Prompt, "history", "bot history is not sent")

	_, err = g.AnalyzeInventory(ctx, "  ", products)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = g.ReportSummary(ctx, ReportBotPerformance, products, bots)
	require.NoError(t, err)
	assert.Contains(t, m.requests[len(m.requests)-1].Prompt, "Bot fleet")

	_, err = g.ReportSummary(ctx, ReportType("Payroll"), products, bots)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	actual := 120
	_, err = g.ForecastExplanation(ctx, []ForecastPoint{{Month: "Jan", Actual: &actual, Predicted: 110}, {Month: "Feb", Predicted: 130}})
	require.NoError(t, err)
	assert.Contains(t, m.requests[len(m.requests)-1].Prompt, "Jan: actual 120, predicted 110")
}

func TestGateway_ModelFailureIsWrapped(t *testing.T) {
	cause := errors.New("quota exceeded")
	g := newGateway(&fakeModel{err: cause})

	_, err := g.Recommendation(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestGateway_ReorderSuggestion(t *testing.T) {
	testCases := []struct {
		name        string
		products    []inventory.Product
		reply       string
		expected    []string
		expectErr   bool
		expectCalls int
	}{
		{
			name:        "fenced json, unknown ids dropped",
			products:    inventory.SeedProducts(),
			reply:       "```json\n{\"product_ids\": [\"PID-006\", \"pid-002\", \"PID-001\", \"PID-006\"]}\n```",
			expected:    []string{"PID-006", "PID-002"},
			expectCalls: 1,
		},
		{
			name:        "no low stock skips the model",
			products:    inventory.FilterByStatus(inventory.SeedProducts(), inventory.StatusInStock),
			expected:    []string{},
			expectCalls: 0,
		},
		{
			name:        "malformed json",
			products:    inventory.SeedProducts(),
			reply:       "PID-002 first",
			expectErr:   true,
			expectCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &fakeModel{text: tc.reply}
			ids, err := newGateway(m).ReorderSuggestion(context.Background(), tc.products)

			assert.Len(t, m.requests, tc.expectCalls)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ids)
			for _, r := range m.requests {
				assert.True(t, r.JSON)
				assert.NotContains(t, r.Prompt, "Quantum Processor", "in-stock products are not sent")
			}
		})
	}
}

func TestGateway_DelegateTask(t *testing.T) {
	bots := fleet.SeedBots(now)

	testCases := []struct {
		name      string
		reply     string
		expected  Delegation
		expectErr bool
	}{
		{
			name:     "valid",
			reply:    `{"botId":"BOT-02","reason":"Idle with 95% battery","task":"Deliver Item - Packing Area"}`,
			expected: Delegation{BotID: "BOT-02", Reason: "Idle with 95% battery", Task: "Deliver Item - Packing Area"},
		},
		{name: "unknown bot", reply: `{"botId":"BOT-99","reason":"x","task":"Scan Shelf - Aisle 1"}`, expectErr: true},
		{name: "maintenance bot", reply: `{"botId":"BOT-05","reason":"x","task":"Scan Shelf - Aisle 1"}`, expectErr: true},
		{name: "missing task", reply: `{"botId":"BOT-02","reason":"x"}`, expectErr: true},
		{name: "task without details", reply: `{"botId":"BOT-02","reason":"x","task":"Deliver Item"}`, expectErr: true},
		{name: "not json", reply: `BOT-02`, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := newGateway(&fakeModel{text: tc.reply}).DelegateTask(context.Background(), "move packing supplies", bots)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestGateway_CoPilotSuggestions(t *testing.T) {
	reply := "```json\n" + `[
		{"id":"","priority":"High","issueTitle":"Auto-Suture Kits low","analysis":"15 left","steps":[
			{"actionType":"FLAG_REORDER","description":"Reorder kits","details":{"productIds":["PID-006"]}},
			{"actionType":"ASSIGN_BOT","description":"Fetch","details":{"botId":"BOT-07","task":"Pick Item - PID-006"}}
		]},
		{"id":"keep-me","priority":"Low","issueTitle":"FYI","analysis":"","steps":[{"actionType":"INFO","description":"ok"}]}
	]` + "\n```"

	list, err := newGateway(&fakeModel{text: reply}).CoPilotSuggestions(context.Background(), inventory.SeedProducts(), fleet.SeedBots(now))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].ID, 36)
	assert.Len(t, list[1].ID, 36)
	assert.NotEqual(t, "keep-me", list[1].ID, "model ids are replaced")
	assert.NotEqual(t, list[0].ID, list[1].ID)

	again, err := newGateway(&fakeModel{text: reply}).CoPilotSuggestions(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, list[1].ID, again[1].ID, "the same plan from another refresh gets another id")
	assert.Equal(t, []string{"PID-006"}, list[0].Steps[0].ProductIDs())
	assert.Equal(t, "BOT-07", list[0].Steps[1].String("botId"))
	assert.True(t, list[0].Actionable())
	assert.False(t, list[1].Actionable())

	bad := `[{"priority":"Urgent","issueTitle":"x","steps":[{"actionType":"INFO"}]}]`
	_, err = newGateway(&fakeModel{text: bad}).CoPilotSuggestions(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	bad = `[{"priority":"High","issueTitle":"x","steps":[{"actionType":"SELF_DESTRUCT"}]}]`
	_, err = newGateway(&fakeModel{text: bad}).CoPilotSuggestions(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGateway_GenerateVideo(t *testing.T) {
	m := &fakeModel{video: Video{URI: "https://video/1"}}
	g := newGateway(m)

	v, err := g.GenerateVideo(context.Background(), VideoRequest{Prompt: "bot dancing", Image: []byte{1, 2}, MIMEType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "https://video/1", v.URI)
	assert.Equal(t, "video/mp4", v.MIMEType)
	assert.Equal(t, "16:9", m.videoReq.AspectRatio)

	_, err = g.GenerateVideo(context.Background(), VideoRequest{Prompt: "x", AspectRatio: "4:3"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = g.GenerateVideo(context.Background(), VideoRequest{Prompt: "x", Image: []byte{1}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = g.GenerateVideo(context.Background(), VideoRequest{Prompt: strings.Repeat(" ", 3)})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
