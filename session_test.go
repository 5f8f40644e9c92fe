package imagesession

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// imageResponse builds a response with one text part and one inline image.
func imageResponse(n int) *Response {
	return &Response{
		Candidates: []Candidate{
			{Parts: []Part{
				TextPart(fmt.Sprintf("turn %d", n)),
				InlinePart("image/png", []byte(fmt.Sprintf("img-%d", n))),
			}},
		},
	}
}

func TestNewSession_Validation(t *testing.T) {
	gen := &MockGenerator{}

	if _, err := NewSession(nil, nil); !IsConfigurationError(err) {
		t.Errorf("nil generator: error = %v, want ConfigurationError", err)
	}

	textOnly := &GenerateConfig{ResponseModalities: []Modality{ModalityText}}
	if _, err := NewSession(gen, textOnly); !IsConfigurationError(err) {
		t.Errorf("text-only modalities: error = %v, want ConfigurationError", err)
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("new session history length = %d, want 0", s.Len())
	}
	if s.ID() == "" {
		t.Error("session id is empty")
	}
}

func TestSession_HistoryGrowth(t *testing.T) {
	calls := 0
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
			calls++
			return imageResponse(calls), nil
		},
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var images []Image
	for i := 1; i <= 3; i++ {
		resp, err := s.SendTurn(context.Background(), fmt.Sprintf("prompt %d", i))
		if err != nil {
			t.Fatalf("turn %d failed: %v", i, err)
		}
		img, err := ExtractImage(resp)
		if err != nil {
			t.Fatalf("turn %d extraction failed: %v", i, err)
		}
		images = append(images, img)

		if got := s.Len(); got != 2*i {
			t.Errorf("after turn %d: history length = %d, want %d", i, got, 2*i)
		}
	}

	// Images arrive in call order.
	for i, img := range images {
		want := fmt.Sprintf("img-%d", i+1)
		if string(img.Data) != want {
			t.Errorf("image %d data = %q, want %q", i, img.Data, want)
		}
	}

	// History alternates user/model turns.
	history := s.History()
	for i, turn := range history {
		want := RoleUser
		if i%2 == 1 {
			want = RoleModel
		}
		if turn.Role != want {
			t.Errorf("turn %d role = %q, want %q", i, turn.Role, want)
		}
	}
}

func TestSession_ThirdCallCarriesAccumulatedContext(t *testing.T) {
	var sentHistories [][]Turn
	calls := 0
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
			sentHistories = append(sentHistories, history)
			calls++
			return imageResponse(calls), nil
		},
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if _, err := s.SendTurn(context.Background(), fmt.Sprintf("prompt %d", i)); err != nil {
			t.Fatalf("turn %d failed: %v", i, err)
		}
	}

	third := sentHistories[2]
	if len(third) != 5 {
		t.Fatalf("third request history length = %d, want 5 (2 prior exchanges + new prompt)", len(third))
	}

	// The third request payload contains all parts from calls 1 and 2:
	// both prior prompts and both prior model turns, image bytes included.
	want := []Turn{
		UserTurn("prompt 1"),
		{Role: RoleModel, Parts: imageResponse(1).Candidates[0].Parts},
		UserTurn("prompt 2"),
		{Role: RoleModel, Parts: imageResponse(2).Candidates[0].Parts},
		UserTurn("prompt 3"),
	}
	if diff := cmp.Diff(want, third); diff != "" {
		t.Errorf("third request payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_TransportErrorLeavesUserTurn(t *testing.T) {
	calls := 0
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
			calls++
			if calls > 2 {
				return nil, &TransportError{Model: "test", Err: errors.New("connection reset")}
			}
			return imageResponse(calls), nil
		},
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if _, err := s.SendTurn(context.Background(), fmt.Sprintf("prompt %d", i)); err != nil {
			t.Fatalf("turn %d failed: %v", i, err)
		}
	}

	_, err = s.SendTurn(context.Background(), "prompt 3")
	if !IsTransportError(err) {
		t.Fatalf("error = %v, want TransportError", err)
	}

	// User turn appended, model turn not: 2k + 1.
	if got := s.Len(); got != 5 {
		t.Errorf("history length after failed turn = %d, want 5", got)
	}
	history := s.History()
	if last := history[len(history)-1]; last.Role != RoleUser {
		t.Errorf("last turn role = %q, want user", last.Role)
	}
}

func TestSession_CancellationAppendsNoModelTurn(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.SendTurn(ctx, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if got := s.Len(); got != 1 {
		t.Errorf("history length after cancelled turn = %d, want 1", got)
	}
}

func TestSession_FirstCandidateCarriedForward(t *testing.T) {
	first := []Part{TextPart("primary"), InlinePart("image/png", []byte("primary-img"))}
	second := []Part{InlinePart("image/png", []byte("alternate-img"))}

	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
			return &Response{Candidates: []Candidate{{Parts: first}, {Parts: second}}}, nil
		},
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := s.SendTurn(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The response still exposes both candidates to the caller.
	if got := len(ExtractImages(resp)); got != 2 {
		t.Errorf("response image count = %d, want 2", got)
	}

	// Only the first candidate enters the history.
	history := s.History()
	modelTurn := history[1]
	if diff := cmp.Diff(first, modelTurn.Parts); diff != "" {
		t.Errorf("model turn parts mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ZeroCandidateResponse(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
			return &Response{}, nil
		},
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := s.SendTurn(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ExtractImage(resp); !errors.Is(err, ErrNoImageProduced) {
		t.Errorf("extraction error = %v, want ErrNoImageProduced", err)
	}

	// A successful but empty exchange still counts as a full exchange.
	if got := s.Len(); got != 2 {
		t.Errorf("history length = %d, want 2", got)
	}
}

func TestSession_EmptyPrompt(t *testing.T) {
	s, err := NewSession(&MockGenerator{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.SendTurn(context.Background(), ""); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("error = %v, want ErrEmptyPrompt", err)
	}
	if got := s.Len(); got != 0 {
		t.Errorf("history length after rejected prompt = %d, want 0", got)
	}
}

func TestSession_SendTurnWithImages(t *testing.T) {
	var captured []Turn
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
			captured = history
			return imageResponse(1), nil
		},
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ref := InputImage{Data: []byte("ref"), MIMEType: "image/png"}
	if _, err := s.SendTurnWithImages(context.Background(), "match this style", []InputImage{ref}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userTurn := captured[0]
	if len(userTurn.Parts) != 2 {
		t.Fatalf("user turn part count = %d, want 2", len(userTurn.Parts))
	}
	// Images precede the prompt text.
	if userTurn.Parts[0].Kind() != PartKindInline {
		t.Errorf("first part kind = %v, want inline", userTurn.Parts[0].Kind())
	}
	if userTurn.Parts[1].Text != "match this style" {
		t.Errorf("second part text = %q, want prompt", userTurn.Parts[1].Text)
	}

	bad := InputImage{Data: []byte("x"), MIMEType: "text/plain"}
	if _, err := s.SendTurnWithImages(context.Background(), "p", []InputImage{bad}); !errors.Is(err, ErrInvalidMIMEType) {
		t.Errorf("error = %v, want ErrInvalidMIMEType", err)
	}
}

func TestSession_HistoryReturnsCopy(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
			return imageResponse(1), nil
		},
	}

	s, err := NewSession(gen, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.SendTurn(context.Background(), "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history := s.History()
	history[0] = Turn{Role: RoleModel}

	if got := s.History()[0].Role; got != RoleUser {
		t.Errorf("internal history mutated through returned copy: role = %q", got)
	}
}
