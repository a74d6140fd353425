package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"tictacbot/internal/game"
)

// Methods used on the wire. Matching is case-exact.
const (
	MethodLogin    = "Login"
	MethodPutToken = "PutToken"
	MethodAction   = "Action"
	MethodEvent    = "Event"
	MethodHelp     = "Help"

	// TurnPlayer is the Action.Turn value meaning the move is ours.
	TurnPlayer = "Player"
	// EventServerClosing is the Event.MethodName sent before the server shuts down.
	EventServerClosing = "ServerClosing"
)

// ErrMalformed wraps every reason a message was discarded as unreadable.
var ErrMalformed = errors.New("malformed message")

// Kind classifies a decoded message.
type Kind int

const (
	KindIgnored Kind = iota
	KindAction
	KindLogin
	KindEvent
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindLogin:
		return "login"
	case KindEvent:
		return "event"
	case KindHelp:
		return "help"
	}
	return "ignored"
}

// Update is a decoded turn update. Board is a full snapshot.
type Update struct {
	Board    game.Board
	Turn     string
	IsMyTurn bool
}

// Command is one decoded inbound message.
type Command struct {
	Kind   Kind
	Method string
	Update Update // KindAction only
	Event  string // KindEvent only: Args.MethodName
}

type header struct {
	Method string `mapstructure:"Method"`
}

type actionArgs struct {
	Turn  string `mapstructure:"Turn"`
	Array string `mapstructure:"Array"`
}

type eventArgs struct {
	MethodName string `mapstructure:"MethodName"`
}

// Decode parses one line. It never fails the caller: unreadable or unknown
// input yields a KindIgnored command. A missing or unknown Method is ignored
// without error. The error is non-nil only for malformed input (not JSON, a
// non-string Method, or Action/Event args that are missing or mistyped) and
// always wraps ErrMalformed.
func Decode(text string) (Command, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Command{Kind: KindIgnored}, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Command{Kind: KindIgnored}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var hdr header
	if err := decode(raw, &hdr, false); err != nil {
		return Command{Kind: KindIgnored}, fmt.Errorf("%w: envelope: %v", ErrMalformed, err)
	}

	cmd := Command{Kind: KindIgnored, Method: hdr.Method}
	switch hdr.Method {
	case MethodAction:
		var args actionArgs
		if err := decodeArgs(raw, &args); err != nil {
			return cmd, fmt.Errorf("%w: Action args: %v", ErrMalformed, err)
		}
		cmd.Kind = KindAction
		cmd.Update = Update{
			Board:    game.ParseBoard(args.Array),
			Turn:     args.Turn,
			IsMyTurn: args.Turn == TurnPlayer,
		}
	case MethodEvent:
		var args eventArgs
		if err := decodeArgs(raw, &args); err != nil {
			return cmd, fmt.Errorf("%w: Event args: %v", ErrMalformed, err)
		}
		cmd.Kind = KindEvent
		cmd.Event = args.MethodName
	case MethodLogin:
		cmd.Kind = KindLogin
	case MethodHelp:
		cmd.Kind = KindHelp
	}
	return cmd, nil
}

// decodeArgs fills out from the Args object of raw, which must be present.
func decodeArgs(raw map[string]any, out any) error {
	args, ok := raw["Args"].(map[string]any)
	if !ok {
		return errors.New("Args is not an object")
	}
	return decode(args, out, true)
}

// decode fills out from in with exact key matching and no type coercion.
// With strict set, every field must be present. Extra keys are allowed.
func decode(in any, out any, strict bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		ErrorUnset: strict,
		MatchName:  func(mapKey, fieldName string) bool { return mapKey == fieldName },
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

type outbound struct {
	Method string `json:"Method"`
	Args   any    `json:"Args"`
}

type loginArgs struct {
	UUID string `json:"UUID"`
}

func encode(method string, args any) ([]byte, error) {
	data, err := json.Marshal(outbound{Method: method, Args: args})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}
	return append(data, '\n'), nil
}

// EncodeLogin builds the newline-terminated Login command.
func EncodeLogin(clientID string) ([]byte, error) {
	if clientID == "" {
		return nil, errors.New("encode Login: empty client id")
	}
	return encode(MethodLogin, loginArgs{UUID: clientID})
}

// EncodePutToken builds the newline-terminated PutToken command. m must lie
// on the board.
func EncodePutToken(m game.Move) ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("encode PutToken: move %v off the board", m)
	}
	return encode(MethodPutToken, m)
}
