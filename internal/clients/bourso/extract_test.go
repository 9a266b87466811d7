package bourso

import (
	"errors"
	"testing"

	"github.com/boursagent/boursagent/internal/models"
)

const sampleLoginPage = `<html><body>
<form action="/connexion/saisie-mot-de-passe" method="post">
<div class="sasmap" data-matrix-keys="[&quot;key-07&quot;,&quot;key-18&quot;,&quot;key-29&quot;]"></div>
<input type="hidden" name="challengeToken" value="tok-8f3a1b" />
</form>
</body></html>`

func TestExtractMatrixKeys(t *testing.T) {
	keys, err := extractMatrixKeys(sampleLoginPage)
	if err != nil {
		t.Fatalf("extractMatrixKeys failed: %v", err)
	}

	expected := []string{"key-07", "key-18", "key-29"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, k := range expected {
		if keys[i] != k {
			t.Errorf("key %d: expected %q, got %q", i, k, keys[i])
		}
	}
}

func TestExtractMatrixKeys_UnescapedAttribute(t *testing.T) {
	page := `<div data-matrix-keys="[\"a1\",\"b2\"]"></div>`
	// Backslash-escaped quotes are not valid JSON inside the attribute;
	// only HTML entity escaping is expected.
	if _, err := extractMatrixKeys(page); err == nil {
		t.Fatal("expected MalformedPayloadError for invalid JSON payload")
	}

	page = `<div data-matrix-keys="["a1","b2"]"></div>`
	// The regex stops at the first quote, so the capture is not valid JSON.
	if _, err := extractMatrixKeys(page); err == nil {
		t.Fatal("expected MalformedPayloadError for truncated payload")
	}
}

func TestExtractMatrixKeys_Missing(t *testing.T) {
	_, err := extractMatrixKeys("<html><body>nothing here</body></html>")
	var malformed *MalformedPayloadError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedPayloadError, got %T: %v", err, err)
	}
}

func TestExtractChallengeToken(t *testing.T) {
	token, err := extractChallengeToken(sampleLoginPage)
	if err != nil {
		t.Fatalf("extractChallengeToken failed: %v", err)
	}
	if token != "tok-8f3a1b" {
		t.Errorf("expected token tok-8f3a1b, got %q", token)
	}
}

func TestExtractChallengeToken_Missing(t *testing.T) {
	_, err := extractChallengeToken("<html></html>")
	var malformed *MalformedPayloadError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedPayloadError, got %T: %v", err, err)
	}
}

const sampleSummaryPage = `<html><body>
<a href="/compte-bancaire/boursorama-banque/gerer/s-1a2b3c">Compte courant</a>
<a href="/epargne/assurance-vie/contrat-boursorama-vie/gerer/s-4d5e6f">Assurance vie</a>
<a href="/compte-titres/pea/gerer/s-7g8h9i">PEA</a>
<a href="/credit/immobilier/gerer/s-0j1k2l">Crédit immobilier</a>
<a href="/autre-produit/gerer/s-3m4n5o">Autre</a>
</body></html>`

func TestExtractAccounts_OnePerKind(t *testing.T) {
	accounts, err := extractAccounts(sampleSummaryPage)
	if err != nil {
		t.Fatalf("extractAccounts failed: %v", err)
	}

	byID := map[string]models.AccountKind{}
	for _, a := range accounts {
		if _, dup := byID[a.ID]; dup {
			t.Errorf("duplicate account id %q", a.ID)
		}
		byID[a.ID] = a.Kind
	}

	expected := map[string]models.AccountKind{
		"1a2b3c": models.AccountKindBanking,
		"4d5e6f": models.AccountKindSavings,
		"7g8h9i": models.AccountKindTrading,
		"0j1k2l": models.AccountKindLoans,
		"3m4n5o": models.AccountKindUnknown,
	}
	if len(byID) != len(expected) {
		t.Fatalf("expected %d accounts, got %d", len(expected), len(byID))
	}
	for id, kind := range expected {
		if byID[id] != kind {
			t.Errorf("account %s: expected kind %s, got %s", id, kind, byID[id])
		}
	}
}

func TestExtractAccounts_TypedPatternWins(t *testing.T) {
	// A trading anchor also matches the generic catch-all; the typed kind
	// must be kept.
	page := `<a href="/compte-titres/pea/gerer/s-abc123">PEA</a>`

	accounts, err := extractAccounts(page)
	if err != nil {
		t.Fatalf("extractAccounts failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Kind != models.AccountKindTrading {
		t.Errorf("expected trading kind, got %s", accounts[0].Kind)
	}
}

func TestExtractAccounts_NoAnchors(t *testing.T) {
	// Zero matches is a layout-change signal, not an empty account list.
	_, err := extractAccounts("<html><body>maintenance</body></html>")
	var malformed *MalformedPayloadError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedPayloadError, got %T: %v", err, err)
	}
}

func TestFindAccount(t *testing.T) {
	accounts := []models.Account{
		{ID: "aaa", Kind: models.AccountKindBanking},
		{ID: "bbb", Kind: models.AccountKindTrading},
	}

	account, err := FindAccount(accounts, "bbb")
	if err != nil {
		t.Fatalf("FindAccount failed: %v", err)
	}
	if account.Kind != models.AccountKindTrading {
		t.Errorf("expected trading account, got %s", account.Kind)
	}

	_, err = FindAccount(accounts, "zzz")
	var notFound *AccountNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected AccountNotFoundError, got %T: %v", err, err)
	}
	if notFound.ID != "zzz" {
		t.Errorf("expected id zzz in error, got %q", notFound.ID)
	}
}
