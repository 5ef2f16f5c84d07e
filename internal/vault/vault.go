// Package vault reads per-network, per-account credentials from a
// spreadsheet tab laid out as Rede | Conta | Chave | Valor.
package vault

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lotoqueue/internal/services"
)

// Header names the vault tab must carry (matched case-insensitively).
const (
	ColumnNetwork = "Rede"
	ColumnAccount = "Conta"
	ColumnKey     = "Chave"
	ColumnValue   = "Valor"
)

// KeyRefreshToken marks an account as enumerable.
const KeyRefreshToken = "REFRESH_TOKEN"

type entryKey struct {
	network string
	account string
	key     string
}

// Vault is an immutable in-memory credential table.
type Vault struct {
	entries map[entryKey]string
}

// Source provides the raw rows of the vault tab, header first.
type Source interface {
	Values(ctx context.Context) ([][]string, error)
}

// Load reads src once and parses it.
func Load(ctx context.Context, src Source) (*Vault, error) {
	values, err := src.Values(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(values)
}

// Parse builds a Vault from raw rows. A completely empty tab yields an empty
// vault; a header row without all four columns is a configuration error.
func Parse(values [][]string) (*Vault, error) {
	v := &Vault{entries: make(map[entryKey]string)}
	if len(values) == 0 {
		return v, nil
	}

	header := values[0]
	col := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}
	iNetwork, iAccount, iKey, iValue := col(ColumnNetwork), col(ColumnAccount), col(ColumnKey), col(ColumnValue)
	if iNetwork < 0 || iAccount < 0 || iKey < 0 || iValue < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "vault", "parse",
			fmt.Sprintf("header must contain %s, %s, %s, %s", ColumnNetwork, ColumnAccount, ColumnKey, ColumnValue), nil)
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	for _, row := range values[1:] {
		network := normUpper(cell(row, iNetwork))
		account := cell(row, iAccount)
		key := normUpper(cell(row, iKey))
		value := cell(row, iValue)
		if network == "" || key == "" || value == "" {
			continue
		}
		v.entries[entryKey{network: network, account: account, key: key}] = value
	}
	return v, nil
}

// Get returns the value for (network, account, key), falling back to the
// account-less entry and then to def.
func (v *Vault) Get(network, key, account, def string) string {
	if v == nil {
		return def
	}
	n, k := normUpper(network), normUpper(key)
	if value := v.entries[entryKey{network: n, account: strings.TrimSpace(account), key: k}]; value != "" {
		return value
	}
	if value := v.entries[entryKey{network: n, key: k}]; value != "" {
		return value
	}
	return def
}

// Accounts returns, sorted, every non-empty account under network that has
// a REFRESH_TOKEN entry.
func (v *Vault) Accounts(network string) []string {
	if v == nil {
		return nil
	}
	n := normUpper(network)
	seen := make(map[string]struct{})
	for k, value := range v.entries {
		if k.network != n || k.key != KeyRefreshToken || k.account == "" || value == "" {
			continue
		}
		seen[k.account] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for account := range seen {
		out = append(out, account)
	}
	sort.Strings(out)
	return out
}

// Networks returns the distinct networks present, sorted.
func (v *Vault) Networks() []string {
	if v == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for k := range v.entries {
		seen[k.network] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of stored entries.
func (v *Vault) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

func normUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
