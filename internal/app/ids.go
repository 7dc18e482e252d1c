package app

import (
    "strings"

    "github.com/google/uuid"
)

const botSeatPrefix = "bot-"

func newGameID() string { return uuid.NewString() }

// newBotSeat returns a seat id no browser cookie can collide with.
func newBotSeat() string { return botSeatPrefix + uuid.NewString() }

// IsBotSeat reports whether a seat belongs to a computer player.
func IsBotSeat(seat string) bool { return strings.HasPrefix(seat, botSeatPrefix) }
