package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/config"
	"github.com/hopehaven/hopehaven/internal/logging"
	"github.com/hopehaven/hopehaven/internal/notification"
	"github.com/hopehaven/hopehaven/internal/signature"
)

// captureNotifier records delivered messages so tests can read the codes
// that would normally go out by SMS/email.
type captureNotifier struct {
	mu   sync.Mutex
	last notification.Message
}

func (n *captureNotifier) Send(_ context.Context, m notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = m
	return nil
}

func (n *captureNotifier) lastCode() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	body := n.last.Body
	if len(body) < 6 {
		return ""
	}
	return body[len(body)-6:]
}

func setupApp(t *testing.T) (*fiber.App, *captureNotifier) {
	t.Helper()
	signer, err := signature.New()
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	cfg := config.Config{
		AppName:       "hopehaven-test",
		AppEnv:        "dev",
		AuthSecret:    "test-secret",
		EncryptionKey: bytes.Repeat([]byte{0x24}, 32),
		TokenTTL:      time.Hour,
		ChallengeTTL:  5 * time.Minute,
	}
	notifier := &captureNotifier{}

	app := fiber.New()
	if err := Setup(app, Deps{
		Cfg:      cfg,
		Logger:   logging.Discard(),
		Signer:   signer,
		Notifier: notifier,
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app, notifier
}

func postJSON(t *testing.T, app *fiber.App, path, token string, payload any) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded
}

func getJSON(t *testing.T, app *fiber.App, path, token string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

// registerAndLogin drives the full two-phase signup and login flows and
// returns a session token for the given role.
func registerAndLogin(t *testing.T, app *fiber.App, notifier *captureNotifier, email, role string) string {
	t.Helper()
	const password = "hunter2hunter2"

	status, _ := postJSON(t, app, "/api/v1/auth/request-signup", "", fiber.Map{
		"email": email, "password": password, "role": role,
	})
	if status != fiber.StatusAccepted {
		t.Fatalf("request-signup for %s: status %d", email, status)
	}
	status, _ = postJSON(t, app, "/api/v1/auth/verify-signup", "", fiber.Map{
		"email": email, "code": notifier.lastCode(),
	})
	if status != fiber.StatusCreated {
		t.Fatalf("verify-signup for %s: status %d", email, status)
	}

	status, _ = postJSON(t, app, "/api/v1/auth/request-login", "", fiber.Map{
		"email": email, "password": password,
	})
	if status != fiber.StatusAccepted {
		t.Fatalf("request-login for %s: status %d", email, status)
	}
	status, body := postJSON(t, app, "/api/v1/auth/verify-login", "", fiber.Map{
		"email": email, "code": notifier.lastCode(),
	})
	if status != fiber.StatusOK {
		t.Fatalf("verify-login for %s: status %d", email, status)
	}
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatalf("verify-login for %s returned no token", email)
	}
	return token
}

func TestSignupLoginDonationFlow(t *testing.T) {
	app, notifier := setupApp(t)

	donorToken := registerAndLogin(t, app, notifier, "donor@example.com", "donor")

	status, body := postJSON(t, app, "/api/v1/donations", donorToken, fiber.Map{
		"phone": "+1-555-0100", "amount": 2500, "purpose": "school supplies",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create donation: status %d body %v", status, body)
	}
	if body["donor_email"] != "donor@example.com" {
		t.Fatalf("donation attributed to %v", body["donor_email"])
	}
	if sig, _ := body["signature"].(string); sig == "" {
		t.Fatal("donation missing signature")
	}
	if phone, _ := body["phone"].(string); phone != "" {
		t.Fatal("create response leaked phone")
	}

	status, raw := getJSON(t, app, "/api/v1/donations/mine", donorToken)
	if status != fiber.StatusOK {
		t.Fatalf("list mine: status %d", status)
	}
	var mine []map[string]any
	if err := json.Unmarshal(raw, &mine); err != nil {
		t.Fatalf("decode mine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 donation, got %d", len(mine))
	}
	if mine[0]["phone"] != "+1-555-0100" {
		t.Fatalf("own listing should decrypt phone, got %v", mine[0]["phone"])
	}
}

func TestRoleGates(t *testing.T) {
	app, notifier := setupApp(t)

	donorToken := registerAndLogin(t, app, notifier, "donor@example.com", "donor")
	staffToken := registerAndLogin(t, app, notifier, "worker@example.com", "staff")

	// Donors may not browse the full donation list.
	if status, _ := getJSON(t, app, "/api/v1/donations", donorToken); status != fiber.StatusForbidden {
		t.Fatalf("donor listing all donations: status %d", status)
	}
	// Staff may not record donations.
	if status, _ := postJSON(t, app, "/api/v1/donations", staffToken, fiber.Map{"amount": 100, "purpose": "x"}); status != fiber.StatusForbidden {
		t.Fatalf("staff creating donation: status %d", status)
	}
	// Staff do read the full list.
	if status, _ := getJSON(t, app, "/api/v1/donations", staffToken); status != fiber.StatusOK {
		t.Fatalf("staff listing donations: status %d", status)
	}
	// Deleting is admin-only.
	req := httptest.NewRequest(fiber.MethodDelete, "/api/v1/donations/some-id", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+staffToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("staff deleting donation: status %d", resp.StatusCode)
	}
}

func TestProofFlow(t *testing.T) {
	app, notifier := setupApp(t)

	donorToken := registerAndLogin(t, app, notifier, "donor@example.com", "donor")
	staffToken := registerAndLogin(t, app, notifier, "worker@example.com", "staff")

	status, donationBody := postJSON(t, app, "/api/v1/donations", donorToken, fiber.Map{
		"amount": 5000, "purpose": "meals",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create donation: status %d", status)
	}
	donationID, _ := donationBody["id"].(string)

	status, proofBody := postJSON(t, app, "/api/v1/proofs", staffToken, fiber.Map{
		"donation_id": donationID, "content": "cmVjZWlwdA==", "description": "grocery receipt",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create proof: status %d body %v", status, proofBody)
	}

	// Proofs against unknown donations are rejected.
	status, _ = postJSON(t, app, "/api/v1/proofs", staffToken, fiber.Map{
		"donation_id": "missing", "content": "x",
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("proof for missing donation: status %d", status)
	}

	// Donors can read proofs but not file them.
	if status, _ := getJSON(t, app, "/api/v1/proofs?donation_id="+donationID, donorToken); status != fiber.StatusOK {
		t.Fatalf("donor reading proofs: status %d", status)
	}
	status, _ = postJSON(t, app, "/api/v1/proofs", donorToken, fiber.Map{
		"donation_id": donationID, "content": "x",
	})
	if status != fiber.StatusForbidden {
		t.Fatalf("donor filing proof: status %d", status)
	}
}

func TestUnauthenticatedAndProfile(t *testing.T) {
	app, notifier := setupApp(t)

	if status, _ := getJSON(t, app, "/api/v1/donations", ""); status != fiber.StatusUnauthorized {
		t.Fatalf("unauthenticated listing: status %d", status)
	}
	if status, _ := getJSON(t, app, "/api/v1/donations", "not-a-token"); status != fiber.StatusUnauthorized {
		t.Fatalf("garbage token: status %d", status)
	}

	token := registerAndLogin(t, app, notifier, "donor@example.com", "donor")
	status, raw := getJSON(t, app, "/api/v1/me", token)
	if status != fiber.StatusOK {
		t.Fatalf("profile: status %d", status)
	}
	var profile map[string]any
	if err := json.Unmarshal(raw, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile["email"] != "donor@example.com" || profile["role"] != "donor" {
		t.Fatalf("unexpected profile %v", profile)
	}
}

func TestPublicKeyVerifiesDonationSignature(t *testing.T) {
	app, notifier := setupApp(t)

	token := registerAndLogin(t, app, notifier, "donor@example.com", "donor")
	status, body := postJSON(t, app, "/api/v1/donations", token, fiber.Map{
		"amount": 1500, "purpose": "books",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create donation: status %d", status)
	}

	status, raw := getJSON(t, app, "/api/v1/auth/public-key", "")
	if status != fiber.StatusOK {
		t.Fatalf("public key: status %d", status)
	}
	var keyBody map[string]string
	if err := json.Unmarshal(raw, &keyBody); err != nil {
		t.Fatalf("decode key: %v", err)
	}
	pub, err := signature.ParsePublicKeyPEM(keyBody["public_key"])
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}

	amount := int64(body["amount"].(float64))
	canonical := fmt.Sprintf("%s|%d|%s", body["donor_email"], amount, body["purpose"])
	sig, _ := body["signature"].(string)
	ok, err := signature.VerifyWith(pub, canonical, sig)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("served public key failed to verify donation signature")
	}
	if strings.TrimSpace(sig) == "" {
		t.Fatal("empty signature")
	}
}
