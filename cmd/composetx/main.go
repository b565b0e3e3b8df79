// Command composetx builds a balanced, serialized Cardano transaction
// body from a JSON request document: a UTXO set, requested outputs,
// certificates, and withdrawals. It prints the resulting summary as
// JSON on stdout, the same "build app, load config, run one action"
// shape cmd/swaprouter's main.go uses.
package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/urfave/cli/v2"

	cardanosdk "github.com/echovl/cardano-go"

	"github.com/cardano-tx/coinselect/coinselect"
	"github.com/cardano-tx/coinselect/internal/log"
	"github.com/cardano-tx/coinselect/ledgeroracle/cardanogo"
	"github.com/cardano-tx/coinselect/params"
)

var (
	clientIdentifier = "composetx"

	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "path to the coinselect TOML config file",
		Required: true,
	}
	requestFileFlag = &cli.StringFlag{
		Name:     "request",
		Aliases:  []string{"r"},
		Usage:    "path to the compose-request JSON document",
		Required: true,
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "log verbosity (0=crit .. 5=trace)",
		Value: 3,
	}
	jsonLogFlag  = &cli.BoolFlag{Name: "jsonlog", Usage: "emit logs as JSON"}
	colorLogFlag = &cli.BoolFlag{Name: "colorlog", Usage: "colorize terminal logs", Value: true}
)

func main() {
	app := &cli.App{
		Name:    clientIdentifier,
		Usage:   "compose a Cardano transaction body from a UTXO set and requested outputs",
		Flags:   []cli.Flag{configFileFlag, requestFileFlag, verbosityFlag, jsonLogFlag, colorLogFlag},
		Action:  runCompose,
		Version: "0.1.0",
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCompose(ctx *cli.Context) error {
	log.SetLogger(ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogFlag.Name), ctx.Bool(colorLogFlag.Name))

	config, err := params.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reqDoc, err := loadRequestDoc(ctx.String(requestFileFlag.Name))
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}

	req, err := reqDoc.toRequest(config)
	if err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	req.Options, err = optionsFrom(config, req.Options)
	if err != nil {
		return fmt.Errorf("decode config options: %w", err)
	}

	protocol := protocolParamsFrom(config)
	network := cardanogo.NetworkByName(config.Network)
	oracle := cardanogo.New(protocol, network)
	if config.ProtocolParams != nil && config.ProtocolParams.MaxValueSize != 0 {
		oracle.SetMaxValueSize(config.ProtocolParams.MaxValueSize)
	}

	summary, err := coinselect.Compose(oracle, req)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	out, err := json.MarshalIndent(summaryDoc(summary), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func protocolParamsFrom(config *params.CoinSelectConfig) *cardanosdk.ProtocolParams {
	p := &cardanosdk.ProtocolParams{
		CoinsPerUTXOWord: cardanosdk.Coin(4310),
		MinFeeA:          cardanosdk.Coin(44),
		MinFeeB:          cardanosdk.Coin(155381),
		MaxTxSize:        16384,
		KeyDeposit:       cardanosdk.Coin(2000000),
	}
	if config.ProtocolParams == nil {
		return p
	}
	pp := config.ProtocolParams
	if pp.CoinsPerUTXOByte != 0 {
		p.CoinsPerUTXOWord = cardanosdk.Coin(pp.CoinsPerUTXOByte)
	}
	if pp.MaxTxSize != 0 {
		p.MaxTxSize = uint(pp.MaxTxSize)
	}
	if pp.KeyDeposit != 0 {
		p.KeyDeposit = cardanosdk.Coin(pp.KeyDeposit)
	}
	return p
}

// optionsFrom layers the config file's deposit/fee defaults under a
// request's own Options, config.ProtocolParams and config.Options
// supplying spec §6.2's ledger-wide defaults that every request
// otherwise inherits.
func optionsFrom(config *params.CoinSelectConfig, opts coinselect.Options) (coinselect.Options, error) {
	if config.ProtocolParams != nil {
		if config.ProtocolParams.KeyDeposit != 0 && opts.KeyDeposit == nil {
			opts.KeyDeposit = big.NewInt(config.ProtocolParams.KeyDeposit)
		}
		if config.ProtocolParams.PoolDeposit != 0 && opts.PoolDeposit == nil {
			opts.PoolDeposit = big.NewInt(config.ProtocolParams.PoolDeposit)
		}
	}
	if config.Options != nil && config.Options.FeeParamsA != "" && opts.FeeParams.A == nil {
		a, ok := new(big.Int).SetString(config.Options.FeeParamsA, 10)
		if !ok {
			return opts, fmt.Errorf("invalid config feeParamsA %q", config.Options.FeeParamsA)
		}
		opts.FeeParams.A = a
	}
	if config.Options != nil && config.Options.MaxTokensPerOutput != 0 && opts.MaxTokensPerOutput == 0 {
		opts.MaxTokensPerOutput = config.Options.MaxTokensPerOutput
	}
	return opts, nil
}

// requestDoc is the JSON wire shape for a compose request: all
// quantities are decimal strings so arbitrarily large values survive
// JSON's float-unsafe number type.
type requestDoc struct {
	UTXOs []struct {
		TxHash      string     `json:"txHash"`
		OutputIndex uint32     `json:"outputIndex"`
		Address     string     `json:"address"`
		Amount      []assetDoc `json:"amount"`
	} `json:"utxos"`
	Outputs []struct {
		Address *string    `json:"address,omitempty"`
		Amount  *string    `json:"amount,omitempty"`
		Assets  []assetDoc `json:"assets,omitempty"`
		SetMax  bool       `json:"setMax,omitempty"`
	} `json:"outputs"`
	Certificates []struct {
		Type     uint8  `json:"type"`
		PoolHash string `json:"poolHash,omitempty"`
	} `json:"certificates,omitempty"`
	Withdrawals []struct {
		StakeAddress string `json:"stakeAddress"`
		Amount       string `json:"amount"`
	} `json:"withdrawals,omitempty"`
	TTL           *uint64 `json:"ttl,omitempty"`
	AccountPubKey string  `json:"accountPubKey,omitempty"`
	Options       struct {
		MaxTokensPerOutput uint32 `json:"maxTokensPerOutput,omitempty"`
		FeeParamsA         string `json:"feeParamsA,omitempty"`
	} `json:"options,omitempty"`
}

type assetDoc struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

func loadRequestDoc(path string) (*requestDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc := &requestDoc{}
	if err := json.NewDecoder(f).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *requestDoc) toRequest(config *params.CoinSelectConfig) (coinselect.Request, error) {
	req := coinselect.Request{ChangeAddress: config.ChangeAddress, TTL: d.TTL, AccountPubKey: d.AccountPubKey}
	req.Options.MaxTokensPerOutput = d.Options.MaxTokensPerOutput
	if d.Options.FeeParamsA != "" {
		a, ok := new(big.Int).SetString(d.Options.FeeParamsA, 10)
		if !ok {
			return req, fmt.Errorf("invalid options feeParamsA %q", d.Options.FeeParamsA)
		}
		req.Options.FeeParams.A = a
	}

	for _, u := range d.UTXOs {
		amount, err := decodeAssets(u.Amount)
		if err != nil {
			return req, err
		}
		req.UTXOs = append(req.UTXOs, coinselect.UTXO{
			TxHash:      u.TxHash,
			OutputIndex: u.OutputIndex,
			Address:     u.Address,
			Amount:      amount,
		})
	}

	for _, o := range d.Outputs {
		assets, err := decodeAssets(o.Assets)
		if err != nil {
			return req, err
		}
		out := coinselect.UserOutput{Address: o.Address, Assets: assets, SetMax: o.SetMax}
		if o.Amount != nil {
			amt, ok := new(big.Int).SetString(*o.Amount, 10)
			if !ok {
				return req, fmt.Errorf("invalid output amount %q", *o.Amount)
			}
			out.Amount = amt
		}
		req.Outputs = append(req.Outputs, out)
	}

	for _, c := range d.Certificates {
		req.Certificates = append(req.Certificates, coinselect.Certificate{
			Type:     coinselect.CertificateType(c.Type),
			PoolHash: c.PoolHash,
		})
	}

	for _, w := range d.Withdrawals {
		amt, ok := new(big.Int).SetString(w.Amount, 10)
		if !ok {
			return req, fmt.Errorf("invalid withdrawal amount %q", w.Amount)
		}
		req.Withdrawals = append(req.Withdrawals, coinselect.Withdrawal{StakeAddress: w.StakeAddress, Amount: amt})
	}

	return req, nil
}

func decodeAssets(docs []assetDoc) ([]coinselect.Asset, error) {
	assets := make([]coinselect.Asset, 0, len(docs))
	for _, a := range docs {
		qty, ok := new(big.Int).SetString(a.Quantity, 10)
		if !ok {
			return nil, fmt.Errorf("invalid asset quantity %q for unit %q", a.Quantity, a.Unit)
		}
		assets = append(assets, coinselect.Asset{Unit: a.Unit, Quantity: qty})
	}
	return assets, nil
}

type summaryDocT struct {
	Fee        string              `json:"fee"`
	TotalSpent string              `json:"totalSpent"`
	TTL        *uint64             `json:"ttl,omitempty"`
	Tx         *coinselect.TxResult `json:"tx,omitempty"`
	Inputs     []string            `json:"inputs"`
}

func summaryDoc(s *coinselect.Summary) summaryDocT {
	doc := summaryDocT{
		Fee:        s.Fee.String(),
		TotalSpent: s.TotalSpent.String(),
		TTL:        s.TTL,
		Tx:         s.Tx,
	}
	for _, in := range s.Inputs {
		doc.Inputs = append(doc.Inputs, in.Key())
	}
	return doc
}
