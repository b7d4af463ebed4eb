package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/louisbranch/rollkeeper/internal/core/arith"
	"github.com/louisbranch/rollkeeper/internal/core/dice"
	"github.com/louisbranch/rollkeeper/internal/sheet/alias"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	_, parseErr := arith.Eval("2+abc")
	_, divErr := arith.Eval("1/(2-2)")

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "parse", err: parseErr, want: CodeArithUnsupported},
		{name: "division", err: divErr, want: CodeArithDivisionByZero},
		{name: "dice count", err: fmt.Errorf("term 0d6: %w", dice.ErrInvalidDiceCount), want: CodeDiceInvalidCount},
		{name: "selection", err: dice.ErrInvalidSelection, want: CodeDiceInvalidSelection},
		{name: "too many", err: dice.ErrTooManyDice, want: CodeDiceTooMany},
		{name: "hunger", err: hunger.ErrInvalidHunger, want: CodePoolInvalidHunger},
		{name: "profile wraps not found", err: fmt.Errorf("%w: %w", alias.ErrUnknownProfile, storage.ErrNotFound), want: CodeSheetUnknownProfile},
		{name: "alias", err: alias.ErrUnknownAlias, want: CodeSheetUnknownAlias},
		{name: "exists", err: storage.ErrAlreadyExists, want: CodeSheetProfileExists},
		{name: "unknown", err: errors.New("boom"), want: CodeUnknown},
		{name: "domain passthrough", err: New(CodeSheetIdentityRequired, "missing"), want: CodeSheetIdentityRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Code != tt.want {
				t.Fatalf("code = %s, want %s", got.Code, tt.want)
			}
			if tt.want != CodeSheetIdentityRequired && !errors.Is(got, tt.err) {
				t.Fatal("expected classified error to wrap the cause")
			}
		})
	}
	if Classify(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(CodeNotFound, "a"))
	if !errors.Is(err, New(CodeNotFound, "b")) {
		t.Fatal("expected code match")
	}
	if errors.Is(err, New(CodeUnknown, "a")) {
		t.Fatal("expected code mismatch")
	}
}

func TestWithInputCopiesMetadata(t *testing.T) {
	base := New(CodeArithSyntax, "bad").With("Extra", "x")
	withInput := base.WithInput("1+")
	if withInput.Metadata[MetadataInput] != "1+" || withInput.Metadata["Extra"] != "x" {
		t.Fatalf("metadata = %v", withInput.Metadata)
	}
	if _, ok := base.Metadata[MetadataInput]; ok {
		t.Fatal("expected original metadata to be unchanged")
	}
	if bare := New(CodeNotFound, "x").WithInput("y"); bare.Metadata[MetadataInput] != "y" {
		t.Fatalf("metadata on bare error = %v", bare.Metadata)
	}
}

func TestGRPCCode(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeArithDivisionByZero, codes.InvalidArgument},
		{CodeDiceTooMany, codes.ResourceExhausted},
		{CodeSheetUnknownProfile, codes.NotFound},
		{CodeSheetProfileExists, codes.AlreadyExists},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Errorf("%s.GRPCCode() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestHandleErrorAttachesDetails(t *testing.T) {
	err := HandleError(Classify(alias.ErrUnknownAlias).WithInput("xyz"), "pt-BR")
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected status error, got %v", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code = %v", st.Code())
	}
	var sawInfo, sawLocalized bool
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			sawInfo = d.Reason == string(CodeSheetUnknownAlias) && d.Domain == Domain
		case *errdetails.LocalizedMessage:
			sawLocalized = d.Locale == "pt-BR" && strings.Contains(d.Message, "xyz")
		}
	}
	if !sawInfo || !sawLocalized {
		t.Fatalf("details = %v", st.Details())
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	err := HandleError(errors.New("boom"), "")
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v", status.Code(err))
	}
	if HandleError(nil, "") != nil {
		t.Fatal("expected nil")
	}
}

func TestLocalize(t *testing.T) {
	msg := Localize(Classify(dice.ErrInvalidDiceCount).WithInput("0d6"), "en-US")
	if !strings.Contains(msg, "0d6") {
		t.Fatalf("message = %q", msg)
	}
	if !IsCode(dice.ErrInvalidDiceCount, CodeDiceInvalidCount) {
		t.Fatal("expected IsCode to classify sentinel")
	}
	if GetMetadata(errors.New("plain")) != nil {
		t.Fatal("expected nil metadata")
	}
}
