package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const airdropMessagePrefix = "airdrop"

// AirdropMessage is the canonical payload an off-chain admin signer commits
// to when issuing a free reward grant. The customer key binds the grant to
// one recipient; the expiry bounds its validity window.
type AirdropMessage struct {
	CustomerKey   string
	RewardRef     string
	RestaurantRef string
	Expiry        int64 // unix seconds
}

// Encode renders the message in its canonical signed form:
// "airdrop|<customer>|<reward>|<restaurant>|<expiry>".
func (m AirdropMessage) Encode() []byte {
	return []byte(strings.Join([]string{
		airdropMessagePrefix,
		m.CustomerKey,
		m.RewardRef,
		m.RestaurantRef,
		strconv.FormatInt(m.Expiry, 10),
	}, "|"))
}

// DecodeAirdropMessage parses the canonical form. Any structural deviation
// fails with ErrInstructionsNotCorrect.
func DecodeAirdropMessage(raw []byte) (AirdropMessage, error) {
	parts := strings.Split(string(raw), "|")
	if len(parts) != 5 || parts[0] != airdropMessagePrefix {
		return AirdropMessage{}, ErrInstructionsNotCorrect
	}
	expiry, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return AirdropMessage{}, fmt.Errorf("%w: bad expiry", ErrInstructionsNotCorrect)
	}
	return AirdropMessage{
		CustomerKey:   parts[1],
		RewardRef:     parts[2],
		RestaurantRef: parts[3],
		Expiry:        expiry,
	}, nil
}
