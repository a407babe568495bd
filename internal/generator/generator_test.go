package generator

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

func TestApplyWindow(t *testing.T) {
	entries := []Entry{
		{Time: 100, Name: "On", Color: Color{R: 300, G: -5, B: 120, Active: true}},
		{Time: 5000, Name: "Peak", Color: Color{R: 255, G: 255, B: 255, Active: true}},
		{Time: 1300, Name: "Off", Color: Color{R: 40, G: 40, B: 40, Active: true}},
	}
	w := timeline.Window{Start: 360, End: 1200}

	out, err := ApplyWindow(entries, w)
	if err != nil {
		t.Fatalf("ApplyWindow: %v", err)
	}
	if out[0].Time != 360 || out[2].Time != 1200 {
		t.Fatalf("window not applied: first=%d last=%d", out[0].Time, out[2].Time)
	}
	if out[2].Color != (Color{}) {
		t.Fatalf("last entry should be black and inactive; got %+v", out[2].Color)
	}
	if out[0].Color != (Color{R: 255, G: 0, B: 120, Active: true}) {
		t.Fatalf("channels should be clamped; got %+v", out[0].Color)
	}
	if out[1].Time != 1439 {
		t.Fatalf("middle time should be clamped into the cycle; got %d", out[1].Time)
	}
	if entries[2].Color.Active != true {
		t.Fatal("input entries must not be modified")
	}

	if _, err := ApplyWindow(nil, w); err == nil {
		t.Fatal("expected error for empty entries")
	}
}

func TestApplyWindowSingleEntry(t *testing.T) {
	out, err := ApplyWindow([]Entry{{Time: 0, Name: "x", Color: Color{R: 9, Active: true}}}, timeline.Window{Start: 400, End: 900})
	if err != nil {
		t.Fatalf("ApplyWindow: %v", err)
	}
	if out[0].Time != 900 || out[0].Color != (Color{}) {
		t.Fatalf("a single entry is both first and last; got %+v", out[0])
	}
}

func TestToKeyframes(t *testing.T) {
	kfs := ToKeyframes([]Entry{
		{Time: 360, Name: "On", Color: Color{R: 10, G: 20, B: 30, Active: true}},
		{Time: 1200, Name: "Off"},
	}, 3, 2)
	if len(kfs) != 2 {
		t.Fatalf("expected 2 keyframes; got %d", len(kfs))
	}
	if kfs[0].ID == "" || kfs[0].ID == kfs[1].ID {
		t.Fatal("keyframes need distinct ids")
	}
	want := grid.Filled(3, 2, grid.Cell{R: 10, G: 20, B: 30, Active: true})
	if !kfs[0].Grid.Equal(want) {
		t.Fatalf("unexpected grid: %+v", kfs[0].Grid)
	}
	if kfs[1].Grid.ActiveCount() != 0 {
		t.Fatal("off entry should be dark")
	}
}

func TestPrompt(t *testing.T) {
	req := DefaultRequest()
	req.Window = timeline.Window{Start: 330, End: 1290}
	p := Prompt(req)
	for _, want := range []string{
		"Primary Goal: Maximize biomass",
		"between 05:30 and 21:30",
		"Target Intensity Level: Medium.",
		"Pulsing Requirement: None.",
		"'lights off' time: 21:30",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestRequestValidate(t *testing.T) {
	if err := DefaultRequest().Validate(); err != nil {
		t.Fatalf("default request invalid: %v", err)
	}
	bad := DefaultRequest()
	bad.Intensity = "Blinding"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for unknown intensity")
	}
	bad = DefaultRequest()
	bad.Goal = ""
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for empty goal")
	}
}

func TestParseResponse(t *testing.T) {
	g, err := ParseResponse([]byte(`{"name":"Purple Basil","description":"d","keyframes":[{"time":360,"name":"On","color":{"r":120,"g":0,"b":200,"active":true}}]}`))
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if g.Name != "Purple Basil" || len(g.Entries) != 1 || g.Entries[0].Color.B != 200 {
		t.Fatalf("unexpected result: %+v", g)
	}

	var gerr *GenerationError
	if _, err := ParseResponse([]byte("not json")); !errors.As(err, &gerr) || gerr.Stage != StageParse {
		t.Fatalf("expected parse GenerationError; got %v", err)
	}
	if _, err := ParseResponse([]byte(`{"name":"x","keyframes":[]}`)); !errors.As(err, &gerr) || gerr.Stage != StageValidate {
		t.Fatalf("expected validate GenerationError; got %v", err)
	}
}

type fakeClient struct {
	result *Generated
	err    error
	block  bool
}

func (f fakeClient) Generate(ctx context.Context, _ Request) (*Generated, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

func TestTaskOutcomes(t *testing.T) {
	ok := &Generated{Name: "ok", Entries: []Entry{{Time: 1}}}

	out := Start(context.Background(), fakeClient{result: ok}, DefaultRequest()).Wait()
	if out.Result != ok || out.Err != nil || out.Canceled {
		t.Fatalf("expected success; got %+v", out)
	}

	out = Start(context.Background(), fakeClient{err: errors.New("quota exceeded")}, DefaultRequest()).Wait()
	var gerr *GenerationError
	if !errors.As(out.Err, &gerr) || gerr.Stage != StageRequest || out.Result != nil {
		t.Fatalf("expected request failure; got %+v", out)
	}

	out = Start(context.Background(), fakeClient{result: &Generated{}}, DefaultRequest()).Wait()
	if !errors.As(out.Err, &gerr) || gerr.Stage != StageValidate {
		t.Fatalf("expected validate failure; got %+v", out)
	}

	bad := DefaultRequest()
	bad.Pulsing = "Strobe"
	out = Start(context.Background(), fakeClient{result: ok}, bad).Wait()
	if out.Err == nil {
		t.Fatal("invalid request should fail before calling the client")
	}
}

func TestTaskCancel(t *testing.T) {
	task := Start(context.Background(), fakeClient{block: true}, DefaultRequest())
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish after Cancel")
	}
	out := task.Wait()
	if !out.Canceled || out.Err != nil || out.Result != nil {
		t.Fatalf("expected canceled outcome; got %+v", out)
	}
}

func TestGeminiGenerate(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	projectID := os.Getenv("GCP_PROJECT_ID")
	if apiKey == "" && projectID == "" {
		t.Skip("GEMINI_API_KEY and GCP_PROJECT_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewGeminiClient(ctx, GeminiOptions{APIKey: apiKey, Project: projectID, Region: os.Getenv("GCP_REGION")})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()

	g, err := client.Generate(ctx, DefaultRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	entries, err := ApplyWindow(g.Entries, timeline.DefaultWindow)
	if err != nil {
		t.Fatalf("apply window: %v", err)
	}
	t.Logf("Generated %q with %d keyframes", g.Name, len(entries))
}

func TestNewGeminiClientNeedsCredentials(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), GeminiOptions{}); err == nil {
		t.Fatal("expected error without credentials")
	}
}
