// Package ingest loads raw lending transactions from a JSON array file or a
// JSONL stream.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"creditScope/internal/model"
)

// ErrEmptyInput is returned when the source holds no transactions at all.
var ErrEmptyInput = errors.New("input contains no transactions")

// Options configures a read.
type Options struct {
	Logger *zap.Logger
	// OnError receives each JSONL line that failed to parse.
	OnError func(model.LoadError)
}

// Result is the outcome of a read.
type Result struct {
	Transactions  []model.RawTransaction
	Total         int
	Failed        int
	NonEVMWallets int
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opts Options) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	return Read(file, path, opts)
}

// Read detects the input format from its first non-space byte. A JSON array
// must parse completely; in JSONL mode malformed lines are reported through
// OnError and skipped.
func Read(r io.Reader, source string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	br := bufio.NewReaderSize(r, 64*1024)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, ErrEmptyInput
		}
		return Result{}, fmt.Errorf("read input: %w", err)
	}

	var res Result
	if first == '[' {
		res, err = readArray(br)
	} else {
		res, err = readLines(br, source, opts.OnError, logger)
	}
	if err != nil {
		return Result{}, err
	}
	if len(res.Transactions) == 0 {
		return Result{}, ErrEmptyInput
	}

	res.NonEVMWallets = countNonEVMWallets(res.Transactions)
	if res.NonEVMWallets > 0 {
		logger.Warn("wallet ids that are not EVM addresses", zap.Int("wallets", res.NonEVMWallets))
	}

	logger.Info("load complete",
		zap.String("source", source),
		zap.Int("total", res.Total),
		zap.Int("loaded", len(res.Transactions)),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func readArray(r io.Reader) (Result, error) {
	dec := json.NewDecoder(r)
	if _, err := dec.Token(); err != nil {
		return Result{}, fmt.Errorf("parse input: %w", err)
	}

	var res Result
	for dec.More() {
		var tx model.RawTransaction
		if err := dec.Decode(&tx); err != nil {
			return Result{}, fmt.Errorf("parse transaction %d: %w", res.Total, err)
		}
		res.Total++
		res.Transactions = append(res.Transactions, tx)
	}
	if _, err := dec.Token(); err != nil {
		return Result{}, fmt.Errorf("parse input: %w", err)
	}
	return res, nil
}

func readLines(r io.Reader, source string, onError func(model.LoadError), logger *zap.Logger) (Result, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var res Result
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		res.Total++

		var tx model.RawTransaction
		if err := json.Unmarshal(line, &tx); err != nil {
			res.Failed++
			logger.Warn("parse transaction", zap.Int("line", lineNo), zap.Error(err))
			if onError != nil {
				onError(model.LoadError{Source: source, Line: lineNo, Error: err.Error()})
			}
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("scan input: %w", err)
	}
	return res, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

func countNonEVMWallets(txs []model.RawTransaction) int {
	seen := make(map[string]struct{})
	count := 0
	for _, tx := range txs {
		if _, ok := seen[tx.UserWallet]; ok {
			continue
		}
		seen[tx.UserWallet] = struct{}{}
		if !common.IsHexAddress(tx.UserWallet) {
			count++
		}
	}
	return count
}
