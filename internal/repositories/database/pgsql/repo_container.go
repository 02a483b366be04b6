package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
)

// RepoContainer bundles the repositories backed by one connection pool.
type RepoContainer struct {
	Journal portsrepo.JournalRepositoryFacade
	Rule    portsrepo.RuleRepositoryFacade
	Ledger  portsrepo.LedgerRepositoryFacade
}

// NewRepoContainer creates all repositories on the given pool.
func NewRepoContainer(pool *pgxpool.Pool) *RepoContainer {
	return &RepoContainer{
		Journal: newPgxJournalRepository(pool),
		Rule:    newPgxRuleRepository(pool),
		Ledger:  newPgxLedgerRepository(pool),
	}
}
