// Command stipend pays a fixed amount from the seed account to every
// account at or below a minimum level of funds, one transfer per account.
//
// Usage: stipend ACCOUNT_MINIMUM STIPEND_AMOUNT
package main

import (
	"flag"
	"log"
	"strconv"
	"time"

	"coincore/internal/ledger"
	"coincore/internal/platform/config"
	"coincore/internal/protocol"
	"coincore/internal/transport"
)

// maxStipendAmount caps a single stipend payout.
const maxStipendAmount = 100

type stipendConfig struct {
	CoreSocketPath string        `env:"CORE_SOCKET_PATH" envDefault:"/tmp/coincore.sock"`
	CallTimeout    time.Duration `env:"CORE_CALL_TIMEOUT" envDefault:"1s"`
}

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		config.Exitf("expected two arguments: ACCOUNT_MINIMUM STIPEND_AMOUNT")
	}

	var cfg stipendConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	minimum, err := strconv.ParseInt(flag.Arg(0), 10, 64)
	if err != nil {
		config.Exitf("invalid minimum: %v", err)
	}
	amount, err := strconv.ParseInt(flag.Arg(1), 10, 64)
	if err != nil {
		config.Exitf("invalid amount: %v", err)
	}
	if amount > maxStipendAmount {
		config.Exitf("requested amount over the limit of %d", maxStipendAmount)
	}

	client := transport.NewClient(cfg.CoreSocketPath, "", cfg.CallTimeout)

	req, err := protocol.NewRequest(protocol.TypeGetAccounts, nil)
	if err != nil {
		config.Exitf("build request: %v", err)
	}
	resp, err := client.Call(req)
	if err != nil {
		config.Exitf("call core: %v", err)
	}

	var accounts []ledger.Account
	if err := resp.DecodeBody(&accounts); err != nil {
		config.Exitf("list accounts: %v", err)
	}
	log.Printf("found %d accounts", len(accounts))

	seedID := ledger.SeedAccountID()
	eligible := 0
	for _, account := range accounts {
		if account.Funds > minimum || account.AccountID == seedID {
			continue
		}
		eligible++

		req, err := protocol.NewRequest(protocol.TypeCreateTransaction, protocol.CreateTransactionRequest{
			SenderID:   seedID,
			ReceiverID: account.AccountID,
			Amount:     amount,
		})
		if err != nil {
			config.Exitf("build transfer request: %v", err)
		}
		resp, err := client.Call(req)
		if err != nil {
			config.Exitf("call core: %v", err)
		}

		var receipt ledger.TransactionReceipt
		if err := resp.DecodeBody(&receipt); err != nil {
			log.Printf("stipend for %s failed: %v", account.AccountID, err)
			continue
		}
		log.Printf("stipend for %s: transaction %s", account.AccountID, receipt.TransactionID)
	}
	log.Printf("found %d accounts eligible for stipend", eligible)
}
