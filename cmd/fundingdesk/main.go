package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"fundingdesk/config"
	"fundingdesk/internal/exchange"
	"fundingdesk/logger"
	"fundingdesk/models"
	"fundingdesk/report"
)

const usage = `usage: fundingdesk [-config path] <command> [flags]

commands:
  funding-rates          ranked funding-rate report across the perpetual universe
  perpetuals             list tradeable USDT-quoted perpetual symbols
  leverage-catalog       leverage tiers and notional caps per perpetual symbol
  funding-history        funding-fee income history for one symbol
  past-funding           historical funding rates for one symbol
  arbitrage              funding arbitrage economics at a target leverage
  positions              live position snapshot
  place-trailing-stop    place a notional-sized TRAILING_STOP_MARKET order
  cancel-trailing-stops  cancel all open trailing-stop orders for one symbol
`

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
		"command": args[0],
	}).Info("starting fundingdesk")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		logger.InitCloudWatch(cfg.Metrics.Region, cfg.Metrics.Namespace)
	}
	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}

	desk, err := report.New(exchange.NewClient(cfg))
	if err != nil {
		log.WithError(err).Error("Failed to initialise report facade")
		os.Exit(1)
	}

	if err := run(ctx, desk, args[0], args[1:]); err != nil {
		log.WithError(err).WithFields(logger.Fields{"command": args[0]}).Error("command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, desk *report.Facade, command string, args []string) error {
	switch command {
	case "funding-rates":
		return runFundingRates(ctx, desk, args)
	case "perpetuals":
		return runPerpetuals(ctx, desk)
	case "leverage-catalog":
		return runLeverageCatalog(ctx, desk)
	case "funding-history":
		return runFundingHistory(ctx, desk, args)
	case "past-funding":
		return runPastFunding(ctx, desk, args)
	case "arbitrage":
		return runArbitrage(ctx, desk, args)
	case "positions":
		return runPositions(ctx, desk, args)
	case "place-trailing-stop":
		return runPlaceTrailingStop(ctx, desk, args)
	case "cancel-trailing-stops":
		return runCancelTrailingStops(ctx, desk, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runFundingRates(ctx context.Context, desk *report.Facade, args []string) error {
	fs := flag.NewFlagSet("funding-rates", flag.ExitOnError)
	assetsFlag := fs.String("assets", "", "comma separated symbol allowlist (default: all USDT perpetuals)")
	fs.Parse(args)

	var assets []string
	if *assetsFlag != "" {
		for _, a := range strings.Split(*assetsFlag, ",") {
			if a = strings.TrimSpace(a); a != "" {
				assets = append(assets, a)
			}
		}
	}

	rows, err := desk.FundingRates(ctx, assets)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "SYMBOL\tFUNDING RATE\tNEXT FUNDING\tSIDE\tRANKING")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Symbol, r.FundingRate.String(), r.NextFundingTime, r.Side, formatRank(r.Ranking))
	}
	return w.Flush()
}

func runPerpetuals(ctx context.Context, desk *report.Facade) error {
	symbols, err := desk.PerpetualSymbols(ctx)
	if err != nil {
		return err
	}
	for _, s := range symbols {
		fmt.Println(s)
	}
	return nil
}

func runLeverageCatalog(ctx context.Context, desk *report.Facade) error {
	rows, err := desk.LeverageCatalog(ctx)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "SYMBOL\tLEVERAGE\tNOTIONAL CAP")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Symbol, r.InitialLeverage, r.NotionalCap.String())
	}
	return w.Flush()
}

func runFundingHistory(ctx context.Context, desk *report.Facade, args []string) error {
	fs := flag.NewFlagSet("funding-history", flag.ExitOnError)
	symbol := fs.String("symbol", "", "symbol to query (empty: account-wide)")
	fs.Parse(args)

	rows, err := desk.FundingHistory(ctx, *symbol)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "SYMBOL\tTIME\tINCOME\tTYPE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Symbol, r.Time, r.Income.String(), r.IncomeType)
	}
	return w.Flush()
}

func runPastFunding(ctx context.Context, desk *report.Facade, args []string) error {
	fs := flag.NewFlagSet("past-funding", flag.ExitOnError)
	symbol := fs.String("symbol", "", "symbol to query (required)")
	limit := fs.Int("limit", 10, "maximum rows, most recent first (0: exchange default)")
	fs.Parse(args)
	if *symbol == "" {
		return fmt.Errorf("-symbol is required")
	}

	rows, err := desk.PastFundingRates(ctx, *symbol, *limit)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "FUNDING TIME\tFUNDING RATE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.FundingTime, r.FundingRate.String())
	}
	return w.Flush()
}

func runArbitrage(ctx context.Context, desk *report.Facade, args []string) error {
	fs := flag.NewFlagSet("arbitrage", flag.ExitOnError)
	leverage := fs.Int("leverage", 20, "target leverage tier")
	entryMarket := fs.Bool("entry-market", false, "enter with a market (taker) order")
	exitMarket := fs.Bool("exit-market", true, "exit with a market (taker) order")
	fs.Parse(args)

	rows, err := desk.FundingArbitrage(ctx, *leverage, *entryMarket, *exitMarket)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "SYMBOL\tFUNDING RATE\tNEXT FUNDING\tSIDE\tRANKING\tLEVERAGE\tPOSITION\t% PROFIT\tMARGIN\tFEES\tGROSS\tNET")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Symbol, r.FundingRate.String(), r.NextFundingTime, r.Side, formatRank(r.Ranking),
			r.Leverage, nullStr(r.Position), nullStr(r.PercentProfit), nullStr(r.Margin),
			nullStr(r.Fees), nullStr(r.GrossProfit), nullStr(r.NetProfit))
	}
	return w.Flush()
}

func runPositions(ctx context.Context, desk *report.Facade, args []string) error {
	fs := flag.NewFlagSet("positions", flag.ExitOnError)
	full := fs.Bool("full", false, "include extended columns (amount, liquidation, notional, update time)")
	fs.Parse(args)

	rows, err := desk.Positions(ctx, !*full)
	if err != nil {
		return err
	}

	w := newTable()
	if *full {
		fmt.Fprintln(w, "SYMBOL\tSIDE\tAMOUNT\tENTRY\tMARK\tUPNL\tISOLATED\tLIQUIDATION\tNOTIONAL\tUPDATED")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Symbol, r.Side, r.PositionAmt.String(), r.EntryPrice.String(), r.MarkPrice.String(),
				r.UnrealizedProfit.String(), r.IsolatedWallet.String(),
				r.LiquidationPrice.String(), r.Notional.String(),
				time.UnixMilli(r.UpdateTime).UTC().Format(time.RFC3339))
		}
	} else {
		fmt.Fprintln(w, "SYMBOL\tSIDE\tENTRY\tMARK\tUPNL\tISOLATED")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Symbol, r.Side, r.EntryPrice.String(), r.MarkPrice.String(),
				r.UnrealizedProfit.String(), r.IsolatedWallet.String())
		}
	}
	return w.Flush()
}

func runPlaceTrailingStop(ctx context.Context, desk *report.Facade, args []string) error {
	fs := flag.NewFlagSet("place-trailing-stop", flag.ExitOnError)
	symbol := fs.String("symbol", "", "symbol (required)")
	side := fs.String("side", models.SideSell, "order side: BUY or SELL")
	size := fs.String("size", "", "notional size in USD (required)")
	activation := fs.String("activation-price", "", "activation price (required)")
	callback := fs.String("callback-rate", "", "callback rate in percent, 0.1 to 10 (required)")
	reduceOnly := fs.Bool("reduce-only", true, "submit as reduce-only")
	fs.Parse(args)

	if *symbol == "" || *size == "" || *activation == "" || *callback == "" {
		return fmt.Errorf("-symbol, -size, -activation-price and -callback-rate are required")
	}
	params := report.TrailingStopParams{
		Symbol:     *symbol,
		Side:       strings.ToUpper(*side),
		ReduceOnly: *reduceOnly,
	}
	var err error
	if params.SizeUSD, err = decimal.NewFromString(*size); err != nil {
		return fmt.Errorf("invalid -size: %w", err)
	}
	if params.ActivationPrice, err = decimal.NewFromString(*activation); err != nil {
		return fmt.Errorf("invalid -activation-price: %w", err)
	}
	if params.CallbackRate, err = decimal.NewFromString(*callback); err != nil {
		return fmt.Errorf("invalid -callback-rate: %w", err)
	}

	receipt, err := desk.CreateScaledTrailingStopOrder(ctx, params)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ORDER ID\tCLIENT ORDER ID\tSYMBOL\tSIDE\tQTY\tACTIVATION\tCALLBACK\tREDUCE ONLY\tSTATUS")
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		receipt.OrderID, receipt.ClientOrderID, receipt.Symbol, receipt.Side,
		receipt.Quantity.String(), receipt.ActivationPrice.String(), receipt.CallbackRate.String(),
		strconv.FormatBool(receipt.ReduceOnly), receipt.Status)
	return w.Flush()
}

func runCancelTrailingStops(ctx context.Context, desk *report.Facade, args []string) error {
	fs := flag.NewFlagSet("cancel-trailing-stops", flag.ExitOnError)
	symbol := fs.String("symbol", "", "symbol (required)")
	fs.Parse(args)
	if *symbol == "" {
		return fmt.Errorf("-symbol is required")
	}

	cancelled, err := desk.CancelAllTrailingStopOrders(ctx, *symbol)
	if err != nil {
		return err
	}
	fmt.Printf("cancelled %d trailing stop order(s) on %s\n", cancelled, *symbol)
	return nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func formatRank(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func nullStr(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
