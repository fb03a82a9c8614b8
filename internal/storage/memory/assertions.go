package memory

import (
	"github.com/rfarias/partida/internal/service/account"
	"github.com/rfarias/partida/internal/service/journal"
)

// Compile-time checks that the store satisfies the service interfaces.
var (
	_ journal.Reader = (*Store)(nil)
	_ journal.Writer = (*Store)(nil)
	_ account.Repo   = (*Store)(nil)
	_ account.Writer = (*Store)(nil)
)
