package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// interface of the watermark log contract entries can be anchored to
const watermarkLogABI = `[
	{"inputs":[{"internalType":"string","name":"_watermarkId","type":"string"}],"name":"logWatermark","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"","type":"uint256"}],"name":"watermarkLogs","outputs":[{"internalType":"string","name":"watermarkId","type":"string"},{"internalType":"uint256","name":"timestamp","type":"uint256"},{"internalType":"address","name":"creator","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getLogCount","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// encodes calls to the watermark log contract
type Contract struct {
	abi abi.ABI
}

// parses the contract interface
func NewContract() (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(watermarkLogABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract abi: %w", err)
	}

	return &Contract{abi: parsed}, nil
}

// returns calldata for logWatermark(watermarkID)
func (c *Contract) PackLogWatermark(watermarkID string) ([]byte, error) {
	if watermarkID == "" {
		return nil, ErrEmptyWatermarkID
	}

	return c.abi.Pack("logWatermark", watermarkID)
}

// returns logWatermark calldata for a watermark entry
func (c *Contract) AnchorCalldata(e *Entry) ([]byte, error) {
	if e.Kind != KindWatermark {
		return nil, ErrNotAnchorable
	}

	var record WatermarkRecord
	if err := json.Unmarshal([]byte(e.Data), &record); err != nil {
		return nil, fmt.Errorf("failed to decode watermark entry: %w", err)
	}

	return c.PackLogWatermark(record.WatermarkID)
}

// returns calldata for getLogCount()
func (c *Contract) PackGetLogCount() ([]byte, error) {
	return c.abi.Pack("getLogCount")
}

// decodes calldata produced by PackLogWatermark
func (c *Contract) UnpackLogWatermark(calldata []byte) (string, error) {
	method, err := c.abi.MethodById(calldata)
	if err != nil {
		return "", err
	}

	if method.Name != "logWatermark" {
		return "", fmt.Errorf("unexpected method %s", method.Name)
	}

	args, err := method.Inputs.Unpack(calldata[4:])
	if err != nil {
		return "", err
	}

	id, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected argument type %T", args[0])
	}

	return id, nil
}
