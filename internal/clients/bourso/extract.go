package bourso

import (
	"encoding/json"
	"html"
	"regexp"

	"github.com/boursagent/boursagent/internal/models"
)

// The login page and account summary expose stable, narrow matchable
// substrings; fixed regexes are sufficient and a full HTML parser is not.
var (
	matrixKeysRe     = regexp.MustCompile(`data-matrix-keys="([^"]*)"`)
	challengeTokenRe = regexp.MustCompile(`name="challengeToken" value="([^"]*)"`)

	savingsAccountRe = regexp.MustCompile(`<a href="/epargne/assurance-vie/contrat-boursorama-vie/gerer/s-([a-z0-9]+)">`)
	bankingAccountRe = regexp.MustCompile(`<a href="/compte-bancaire/boursorama-banque/gerer/s-([a-z0-9]+)">`)
	tradingAccountRe = regexp.MustCompile(`<a href="/compte-titres/pea/gerer/s-([a-z0-9]+)">`)
	loansAccountRe   = regexp.MustCompile(`<a href="/credit/immobilier/gerer/s-([a-z0-9]+)">`)
	anyAccountRe     = regexp.MustCompile(`<a href="[^"]*?/s-([a-z0-9]+)">`)
)

// extractMatrixKeys pulls the virtual keypad key identifiers out of the
// login page. The attribute value is an HTML-escaped JSON array of strings.
func extractMatrixKeys(page string) ([]string, error) {
	caps := matrixKeysRe.FindStringSubmatch(page)
	if caps == nil {
		return nil, &MalformedPayloadError{Detail: "no data-matrix-keys attribute in login page"}
	}

	var keys []string
	if err := json.Unmarshal([]byte(html.UnescapeString(caps[1])), &keys); err != nil {
		return nil, &MalformedPayloadError{Detail: "data-matrix-keys is not a JSON string array", Err: err}
	}
	return keys, nil
}

// extractChallengeToken pulls the one-time challenge token hidden field out
// of the login page.
func extractChallengeToken(page string) (string, error) {
	caps := challengeTokenRe.FindStringSubmatch(page)
	if caps == nil {
		return "", &MalformedPayloadError{Detail: "no challengeToken field in login page"}
	}
	return caps[1], nil
}

// extractAccounts discovers accounts on the summary page. Each of the four
// kind-specific anchor patterns claims its matches first; the generic
// catch-all then picks up any remaining anchor id as Unknown. An anchor id
// matched by both a typed pattern and the catch-all keeps the typed kind.
//
// An empty result is ambiguous between "no accounts" and "page layout
// changed", so zero matches overall is a malformed-payload failure rather
// than an empty list.
func extractAccounts(page string) ([]models.Account, error) {
	kindPatterns := []struct {
		kind models.AccountKind
		re   *regexp.Regexp
	}{
		{models.AccountKindSavings, savingsAccountRe},
		{models.AccountKindBanking, bankingAccountRe},
		{models.AccountKindTrading, tradingAccountRe},
		{models.AccountKindLoans, loansAccountRe},
		{models.AccountKindUnknown, anyAccountRe},
	}

	var accounts []models.Account
	seen := map[string]bool{}
	for _, kp := range kindPatterns {
		for _, caps := range kp.re.FindAllStringSubmatch(page, -1) {
			id := caps[1]
			if seen[id] {
				continue
			}
			seen[id] = true
			accounts = append(accounts, models.Account{ID: id, Kind: kp.kind})
		}
	}

	if len(accounts) == 0 {
		return nil, &MalformedPayloadError{Detail: "no account anchors in summary page"}
	}
	return accounts, nil
}

// FindAccount looks an account up by id in a discovered list.
func FindAccount(accounts []models.Account, id string) (*models.Account, error) {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i], nil
		}
	}
	return nil, &AccountNotFoundError{ID: id}
}
