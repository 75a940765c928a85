package postgres

import "github.com/artyom-lobachev/bankledger/internal/service/bank"

var _ bank.Gateway = (*Gateway)(nil)
