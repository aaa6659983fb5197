package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/dilutionwise/internal/calculator"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testInput = calculator.Input{
	InitialShares:    1_000_000,
	YourShares:       50_000,
	CompanyValuation: 100_000_000,
	InvestmentAmount: 50_000_000,
}

func TestReportTokens_RoundTrip(t *testing.T) {
	tokens, err := NewReportTokens(testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewReportTokens failed: %v", err)
	}

	token, expiresAt, err := tokens.Issue(testInput)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(expiresAt) <= 14*time.Minute {
		t.Errorf("expiry %v too soon", expiresAt)
	}

	got, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got != testInput {
		t.Errorf("Parse = %+v, want %+v", got, testInput)
	}
}

func TestReportTokens_Rejects(t *testing.T) {
	tokens, _ := NewReportTokens(testSecret, time.Minute)
	token, _, err := tokens.Issue(testInput)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	t.Run("expired", func(t *testing.T) {
		later, _ := NewReportTokens(testSecret, time.Minute)
		later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		if _, err := later.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewReportTokens(strings.Repeat("x", 32), time.Minute)
		if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := tokens.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("invalid inputs are never signed", func(t *testing.T) {
		bad := testInput
		bad.InitialShares = 0
		if _, _, err := tokens.Issue(bad); !errors.Is(err, calculator.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestNewReportTokens_WeakSecret(t *testing.T) {
	if _, err := NewReportTokens("short", time.Minute); !errors.Is(err, ErrWeakSecret) {
		t.Errorf("expected ErrWeakSecret, got %v", err)
	}
}

func TestAdminAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword failed: %v", err)
	}

	a, err := NewAdminAuthenticator("admin", string(hash))
	if err != nil {
		t.Fatalf("NewAdminAuthenticator failed: %v", err)
	}
	if !a.Enabled() {
		t.Fatal("expected authenticator to be enabled")
	}

	if err := a.Authenticate("admin", "correct horse battery"); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}
	if err := a.Authenticate("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := a.Authenticate("root", "correct horse battery"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong user, got %v", err)
	}
}

func TestAdminAuthenticator_Disabled(t *testing.T) {
	a, err := NewAdminAuthenticator("admin", "")
	if err != nil {
		t.Fatalf("NewAdminAuthenticator failed: %v", err)
	}
	if a.Enabled() {
		t.Error("expected disabled authenticator")
	}
	if err := a.Authenticate("admin", "anything"); !errors.Is(err, ErrAdminDisabled) {
		t.Errorf("expected ErrAdminDisabled, got %v", err)
	}

	if _, err := NewAdminAuthenticator("admin", "not-a-bcrypt-hash"); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	hash, err := HashPassword("a long enough password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("a long enough password")) != nil {
		t.Error("hash does not verify")
	}
}
