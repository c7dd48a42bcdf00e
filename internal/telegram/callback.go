package telegram

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Button choices carried in callback tokens.
const (
	ChoiceAvailable   = "y"
	ChoiceUnavailable = "n"
)

const callbackSep = "."

// EncodeCallback builds the opaque token attached to a response button:
// choice "." base64url(alert id bytes) "." chat id. Neither base64url nor
// decimal digits contain the separator, so decoding is unambiguous, and the
// token stays well under Telegram's 64-byte callback_data limit.
func EncodeCallback(choice string, alertID uuid.UUID, chatID int64) string {
	id := base64.RawURLEncoding.EncodeToString(alertID[:])
	return choice + callbackSep + id + callbackSep + strconv.FormatInt(chatID, 10)
}

// DecodeCallback parses a token produced by EncodeCallback.
func DecodeCallback(token string) (choice string, alertID uuid.UUID, chatID int64, err error) {
	parts := strings.Split(token, callbackSep)
	if len(parts) != 3 {
		return "", uuid.Nil, 0, fmt.Errorf("malformed callback token %q", token)
	}

	choice = parts[0]
	if choice != ChoiceAvailable && choice != ChoiceUnavailable {
		return "", uuid.Nil, 0, fmt.Errorf("unknown choice %q in callback token", choice)
	}

	idBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(idBytes) != 16 {
		return "", uuid.Nil, 0, fmt.Errorf("invalid alert id in callback token %q", token)
	}
	copy(alertID[:], idBytes)

	chatID, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", uuid.Nil, 0, fmt.Errorf("invalid chat id in callback token %q", token)
	}

	return choice, alertID, chatID, nil
}
