package trace

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// whereMatcher evaluates a compiled expr-lang expression against a message.
type whereMatcher struct {
	source  string
	program *vm.Program
}

// CompileWhere compiles a boolean expression over message fields. The
// expression sees action, side, source, version, messageId, size and
// timestamp, for example:
//
//	action startsWith "http://tempuri.org/IOrders/" && side == "caller"
func CompileWhere(expression string) (Matcher, error) {
	program, err := expr.Compile(expression, expr.Env(whereEnv(&Message{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	return &whereMatcher{source: expression, program: program}, nil
}

func (w *whereMatcher) Match(msg *Message) (bool, error) {
	result, err := expr.Run(w.program, whereEnv(msg))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", w.source, err)
	}
	ok, _ := result.(bool)
	return ok, nil
}

func (w *whereMatcher) String() string { return w.source }

func whereEnv(msg *Message) map[string]interface{} {
	return map[string]interface{}{
		"action":    msg.Action,
		"side":      msg.Side.String(),
		"source":    msg.Source,
		"version":   string(msg.Payload.Version()),
		"messageId": msg.MessageID.String(),
		"size":      msg.Payload.Len(),
		"timestamp": msg.Timestamp,
		"zeroTime":  time.Time{},
	}
}
