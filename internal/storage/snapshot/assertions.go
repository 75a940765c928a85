package snapshot

import "github.com/artyom-lobachev/bankledger/internal/service/bank"

// Compile-time interface assertion documenting that the file gateway serves
// the service layer.
var _ bank.Gateway = (*Gateway)(nil)
