package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"atm-ledger/internal/gateway"
	"atm-ledger/internal/logger"
	"atm-ledger/internal/usecase"
)

func main() {
	// Define command-line flags
	dataFile := flag.String("data", "accounts.json", "Path to the JSON snapshot file")
	createArg := flag.String("create", "", "Create an account: id,name,pin,initialAmount")
	loginArg := flag.String("login", "", "Authenticate an account: id,pin")
	depositArg := flag.String("deposit", "", "Deposit into an account: id,amount[,note]")
	withdrawArg := flag.String("withdraw", "", "Withdraw from an account: id,amount[,note]")
	transferArg := flag.String("transfer", "", "Transfer between accounts: fromID,toID,amount")
	listFlag := flag.Bool("list", false, "List all accounts")
	historyArg := flag.String("history", "", "Print the transaction history of an account: id")
	exportArg := flag.String("export", "", "Export an account history to CSV: id,outfile")
	seedFlag := flag.Bool("seed", false, "Seed demo accounts when the store is empty")
	flag.Parse()

	log := logger.New()
	ctx := context.Background()

	// --- Dependency Injection (Wiring the application) ---
	repo := gateway.NewJSONSnapshotRepository(*dataFile)
	ledger := usecase.NewLedger(ctx, repo, log)

	if *seedFlag && ledger.CountAccounts() == 0 {
		seedDemoAccounts(ctx, ledger, log)
	}

	switch {
	case *createArg != "":
		runCreate(ctx, ledger, log, *createArg)
	case *loginArg != "":
		runLogin(ledger, log, *loginArg)
	case *depositArg != "":
		runDeposit(ctx, ledger, log, *depositArg)
	case *withdrawArg != "":
		runWithdraw(ctx, ledger, log, *withdrawArg)
	case *transferArg != "":
		runTransfer(ctx, ledger, log, *transferArg)
	case *listFlag:
		printJSON(log, ledger.ListAccounts())
	case *historyArg != "":
		history, err := ledger.History(*historyArg)
		if err != nil {
			log.Fatal().Err(err).Msg("history failed")
		}
		printJSON(log, history)
	case *exportArg != "":
		runExport(ledger, log, *exportArg)
	case *seedFlag:
		// Seeding alone is a valid invocation.
	default:
		fmt.Println("Error: one action flag (-create, -login, -deposit, -withdraw, -transfer, -list, -history, -export, -seed) is required.")
		flag.Usage()
		os.Exit(1)
	}
}

// seedDemoAccounts populates the two demo accounts the original ATM ships with.
func seedDemoAccounts(ctx context.Context, ledger *usecase.Ledger, log zerolog.Logger) {
	seeds := []struct {
		id, name, pin string
		initial       decimal.Decimal
	}{
		{"10001", "PUKAZHYA P", "1234", decimal.NewFromInt(15000)},
		{"10002", "ANJALI K", "4321", decimal.NewFromInt(8000)},
	}
	for _, s := range seeds {
		if _, err := ledger.CreateAccount(ctx, s.id, s.name, s.pin, s.initial); err != nil {
			log.Fatal().Err(err).Str("account", s.id).Msg("seeding failed")
		}
	}
	log.Info().Int("accounts", ledger.CountAccounts()).Msg("seeded demo accounts")
}

func runCreate(ctx context.Context, ledger *usecase.Ledger, log zerolog.Logger, arg string) {
	parts := splitArg(log, arg, 4, "id,name,pin,initialAmount")
	initial := parseAmount(log, parts[3])
	view, err := ledger.CreateAccount(ctx, parts[0], parts[1], parts[2], initial)
	if err != nil {
		log.Fatal().Err(err).Msg("create failed")
	}
	printJSON(log, view)
}

func runLogin(ledger *usecase.Ledger, log zerolog.Logger, arg string) {
	parts := splitArg(log, arg, 2, "id,pin")
	view, err := ledger.Authenticate(parts[0], parts[1])
	if err != nil {
		log.Fatal().Err(err).Msg("login failed")
	}
	printJSON(log, view)
}

func runDeposit(ctx context.Context, ledger *usecase.Ledger, log zerolog.Logger, arg string) {
	id, amount, note := parseMovement(log, arg, "deposit")
	tx, err := ledger.Deposit(ctx, id, amount, note)
	if err != nil {
		log.Fatal().Err(err).Msg("deposit failed")
	}
	printJSON(log, tx)
}

func runWithdraw(ctx context.Context, ledger *usecase.Ledger, log zerolog.Logger, arg string) {
	id, amount, note := parseMovement(log, arg, "withdraw")
	tx, err := ledger.Withdraw(ctx, id, amount, note)
	if err != nil {
		log.Fatal().Err(err).Msg("withdraw failed")
	}
	printJSON(log, tx)
}

func runTransfer(ctx context.Context, ledger *usecase.Ledger, log zerolog.Logger, arg string) {
	parts := splitArg(log, arg, 3, "fromID,toID,amount")
	amount := parseAmount(log, parts[2])
	legs, err := ledger.Transfer(ctx, parts[0], parts[1], amount)
	if err != nil {
		log.Fatal().Err(err).Msg("transfer failed")
	}
	printJSON(log, legs)
}

func runExport(ledger *usecase.Ledger, log zerolog.Logger, arg string) {
	parts := splitArg(log, arg, 2, "id,outfile")
	history, err := ledger.History(parts[0])
	if err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
	if err := gateway.ExportHistoryFile(parts[1], history); err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
	log.Info().Str("account", parts[0]).Str("file", parts[1]).Int("rows", len(history)).Msg("history exported")
}

// parseMovement parses "id,amount[,note]" for deposit/withdraw actions.
func parseMovement(log zerolog.Logger, arg, action string) (string, decimal.Decimal, string) {
	parts := strings.SplitN(arg, ",", 3)
	if len(parts) < 2 {
		log.Fatal().Str("arg", arg).Msgf("-%s expects id,amount[,note]", action)
	}
	note := action
	if len(parts) == 3 {
		note = parts[2]
	}
	return parts[0], parseAmount(log, parts[1]), note
}

func splitArg(log zerolog.Logger, arg string, n int, shape string) []string {
	parts := strings.SplitN(arg, ",", n)
	if len(parts) != n {
		log.Fatal().Str("arg", arg).Msgf("expected %s", shape)
	}
	return parts
}

func parseAmount(log zerolog.Logger, s string) decimal.Decimal {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatal().Str("amount", s).Msg("could not parse amount")
	}
	return amount
}

func printJSON(log zerolog.Logger, v interface{}) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to render output")
	}
	fmt.Println(string(output))
}
