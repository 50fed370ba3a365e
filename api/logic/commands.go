/* commands.go
 * Contains the typed parsers for every command that takes arguments. Each parser either returns a
 * command value or an *errors.AppError describing what was wrong; none of them touch state
 */

package logic

import (
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "poolmanager-bot/api/errors"
	"poolmanager-bot/api/store"
)

// Layouts accepted for the registration opening time. Zone-less layouts are read in the configured location
var openAtLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type CreatePoolCommand struct {
	Name      string
	Price     float64
	Schedule  string
	OpenAt    time.Time
	MaxCourts int
}

// PoolID derives the pool id from the pool name
func (c CreatePoolCommand) PoolID() string {
	return PoolIDFromName(c.Name)
}

// ToPool builds the new, empty pool described by the command
func (c CreatePoolCommand) ToPool() store.Pool {
	return store.Pool{
		ID:         c.PoolID(),
		Name:       c.Name,
		Price:      c.Price,
		Schedule:   c.Schedule,
		OpenAt:     c.OpenAt,
		MaxCourts:  c.MaxCourts,
		Players:    []store.Registration{},
		Interested: []string{},
	}
}

type NotifyCommand struct {
	PoolRef string
	Message string
}

// SignupCommand is a direct signup by pool id, skipping the numbered menu
type SignupCommand struct {
	PoolRef string
	Partner string
	Side    store.Side
}

// Completion is the side/partner answer that finalises a pending selection
type Completion struct {
	Partner string
	Side    store.Side
}

// PoolIDFromName lower-cases the name and replaces spaces with underscores
func PoolIDFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// ParseCreatePool parses the arguments of crear_pool: <name> <price> <schedule> <openAt> <maxCourts>
// Preconditions: args excludes the command keyword; loc is used for openAt values without a zone
// Postconditions: Returns the command, or an invalid-input error naming the first bad argument
func ParseCreatePool(args []string, loc *time.Location) (CreatePoolCommand, error) {
	if len(args) != 5 {
		return CreatePoolCommand{}, apperrors.InvalidInput("expected 5 arguments, got %d", len(args))
	}

	name := strings.TrimSpace(args[0])
	if name == "" {
		return CreatePoolCommand{}, apperrors.InvalidInput("pool name cannot be empty")
	}

	price, err := ParsePrice(args[1])
	if err != nil {
		return CreatePoolCommand{}, err
	}

	openAt, err := ParseOpenAt(args[3], loc)
	if err != nil {
		return CreatePoolCommand{}, err
	}

	maxCourts, err := strconv.Atoi(args[4])
	if err != nil || maxCourts <= 0 {
		return CreatePoolCommand{}, apperrors.InvalidInput("maxCourts %q must be a positive integer", args[4])
	}

	return CreatePoolCommand{
		Name:      name,
		Price:     price,
		Schedule:  args[2],
		OpenAt:    openAt,
		MaxCourts: maxCourts,
	}, nil
}

// ParsePrice accepts "10", "10.5", "10,5" and a trailing euro sign
func ParsePrice(raw string) (float64, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(raw), "€")
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, apperrors.InvalidInput("price %q must be a non-negative number", raw)
	}
	return price, nil
}

// ParseOpenAt parses an ISO-8601 timestamp. RFC 3339 values keep their offset, the rest use loc
func ParseOpenAt(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value := strings.ToUpper(strings.TrimSpace(raw))

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range openAtLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.InvalidInput("openAt %q is not an ISO-8601 date", raw)
}

// ParseNotify splits the text after notificar into a pool reference and the free-text message.
// The message keeps its original spacing
func ParseNotify(rest string) (NotifyCommand, error) {
	rest = strings.TrimSpace(rest)
	poolRef, message, _ := strings.Cut(rest, " ")
	message = strings.TrimSpace(message)
	if poolRef == "" || message == "" {
		return NotifyCommand{}, apperrors.InvalidInput("expected <poolId> <message>")
	}
	return NotifyCommand{PoolRef: poolRef, Message: message}, nil
}

// ParseSingleRef parses commands taking exactly one pool reference (apuntarme_alerta, quitarme)
func ParseSingleRef(args []string) (string, error) {
	if len(args) != 1 {
		return "", apperrors.InvalidInput("expected exactly 1 argument, got %d", len(args))
	}
	return args[0], nil
}

// ParseSignup parses apuntarme <pool> [<partner>] [<side>]. A single extra argument is a side when it
// reads as one, otherwise a partner
func ParseSignup(args []string) (SignupCommand, error) {
	if len(args) == 0 {
		return SignupCommand{}, apperrors.InvalidInput("expected <poolId> [<partner>] [<side>]")
	}

	cmd := SignupCommand{PoolRef: args[0]}
	rest, side, found := splitKnownSide(args[1:])
	if found {
		cmd.Side = side
	}

	switch len(rest) {
	case 0:
	case 1:
		cmd.Partner = partnerFrom(rest[0])
	default:
		return SignupCommand{}, apperrors.InvalidInput("unexpected arguments %q", strings.Join(rest[1:], " "))
	}
	return cmd, nil
}

// ParseCompletion parses the answer to a selection prompt: "solo <side>" or "<partner> <side>".
// The last token is always the side (the last two when they read "da igual"), and the first token is
// the partner unless it is "solo"
func ParseCompletion(text string) (Completion, error) {
	tokens := strings.Fields(strings.TrimSpace(text))
	if len(tokens) < 2 {
		return Completion{}, apperrors.InvalidInput("expected \"solo <side>\" or \"<partner> <side>\"")
	}

	var side store.Side
	if len(tokens) >= 3 && isEitherSide(tokens[len(tokens)-2:]) {
		side = store.SideEither
	} else {
		side = ParseSide(tokens[len(tokens)-1])
	}

	return Completion{
		Partner: partnerFrom(tokens[0]),
		Side:    side,
	}, nil
}

// ParseSide maps the accepted spellings onto the canonical sides. Anything else is kept lower-cased
func ParseSide(raw string) store.Side {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "derecha", "drive":
		return store.SideRight
	case "reves", "revés":
		return store.SideLeft
	case "da igual", "daigual", "da_igual", "igual":
		return store.SideEither
	}
	return store.Side(value)
}

// IsKnownSide reports whether a token is one of the canonical sides
func IsKnownSide(raw string) bool {
	switch ParseSide(raw) {
	case store.SideRight, store.SideLeft, store.SideEither:
		return true
	}
	return false
}

func isEitherSide(tokens []string) bool {
	return len(tokens) == 2 && strings.EqualFold(tokens[0], "da") && strings.EqualFold(tokens[1], "igual")
}

// splitKnownSide pulls a recognised side off the end of args
func splitKnownSide(args []string) ([]string, store.Side, bool) {
	if len(args) >= 2 && isEitherSide(args[len(args)-2:]) {
		return args[:len(args)-2], store.SideEither, true
	}
	if len(args) >= 1 && IsKnownSide(args[len(args)-1]) {
		return args[:len(args)-1], ParseSide(args[len(args)-1]), true
	}
	return args, "", false
}

func partnerFrom(token string) string {
	if strings.EqualFold(token, "solo") {
		return ""
	}
	return token
}
