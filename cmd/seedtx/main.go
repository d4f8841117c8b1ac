// Command seedtx performs a single transfer from the well-known seed
// account to a receiver, as an ordinary protocol client.
//
// Usage: seedtx RECEIVER_ACCOUNT_ID AMOUNT
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
	"github.com/google/uuid"
)

// maxSeedAmount caps how much a single seed transfer may move.
const maxSeedAmount = 100

type seedtxConfig struct {
	CoreSocketPath string        `env:"CORE_SOCKET_PATH" envDefault:"/tmp/coincore.sock"`
	CallTimeout    time.Duration `env:"CORE_CALL_TIMEOUT" envDefault:"1s"`
}

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		config.Exitf("expected two arguments: RECEIVER_ACCOUNT_ID AMOUNT")
	}

	var cfg seedtxConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	receiver, err := uuid.Parse(flag.Arg(0))
	if err != nil {
		config.Exitf("invalid receiver account id: %v", err)
	}
	amount, err := strconv.ParseInt(flag.Arg(1), 10, 64)
	if err != nil {
		config.Exitf("invalid amount: %v", err)
	}
	if amount > maxSeedAmount {
		config.Exitf("requested amount over the limit of %d", maxSeedAmount)
	}

	req, err := protocol.NewRequest(protocol.TypeCreateTransaction, protocol.CreateTransactionRequest{
		SenderID:   ledger.SeedAccountID(),
		ReceiverID: receiver,
		Amount:     amount,
	})
	if err != nil {
		config.Exitf("build request: %v", err)
	}

	client := transport.NewClient(cfg.CoreSocketPath, "", cfg.CallTimeout)
	resp, err := client.Call(req)
	if err != nil {
		config.Exitf("call core: %v", err)
	}

	var receipt ledger.TransactionReceipt
	if err := resp.DecodeBody(&receipt); err != nil {
		config.Exitf("transaction failed: %v", err)
	}

	log.Printf("transaction %s committed at %s", receipt.TransactionID, receipt.Timestamp)
}
