package cli

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"regexp"
	"strings"

	"github.com/datasetutil/datasetutil/internal/config"
	"github.com/datasetutil/datasetutil/internal/core"
	"github.com/datasetutil/datasetutil/internal/model"
)

// Invocation is the result of parsing the command line.
type Invocation struct {
	Params        *model.Params
	Runtime       config.Runtime
	HelpRequested bool
}

// maskedFlags have their values hidden when echoed.
var maskedFlags = map[string]bool{
	"--p":           true,
	"--jkspassword": true,
}

var helpTokens = []string{"--help", "-help", "help"}

// decimalPattern is the accepted syntax for numeric flag values.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

type flagSetter func(inv *Invocation, flag, value string) error

// flagSetters is keyed by the lower-cased flag name.
var flagSetters = map[string]flagSetter{
	"--u": func(inv *Invocation, _, v string) error {
		inv.Params.Username = v
		return nil
	},
	"--p": func(inv *Invocation, _, v string) error {
		inv.Params.Password = v
		return nil
	},
	"--sessionid": func(inv *Invocation, _, v string) error {
		inv.Params.SessionID = v
		return nil
	},
	"--token": func(inv *Invocation, _, v string) error {
		inv.Params.Token = v
		return nil
	},
	"--jksfile": func(inv *Invocation, _, v string) error {
		inv.Params.JKSFile = v
		return nil
	},
	"--jkspassword": func(inv *Invocation, _, v string) error {
		inv.Params.JKSPassword = v
		return nil
	},
	"--clientid": func(inv *Invocation, _, v string) error {
		inv.Params.ClientID = v
		return nil
	},
	"--endpoint": func(inv *Invocation, _, v string) error {
		inv.Params.Endpoint = v
		return nil
	},
	"--action": func(inv *Invocation, _, v string) error {
		inv.Params.ActionName = v
		inv.Params.Action = model.ParseAction(v)
		return nil
	},
	"--operation": func(inv *Invocation, flag, v string) error {
		op, ok := model.ParseOperation(v)
		if !ok {
			return &ArgumentError{Flag: flag, Value: v, Reason: "Invalid operation"}
		}
		inv.Params.Operation = op
		return nil
	},
	"--mode": func(inv *Invocation, flag, v string) error {
		mode, ok := model.ParseMode(v)
		if !ok {
			return &ArgumentError{Flag: flag, Value: v, Reason: "Invalid mode"}
		}
		inv.Params.Mode = mode
		return nil
	},
	"--uploadformat": func(inv *Invocation, flag, v string) error {
		format, ok := model.ParseUploadFormat(v)
		if !ok {
			return &ArgumentError{Flag: flag, Value: v, Reason: "Invalid uploadFormat"}
		}
		inv.Params.UploadFormat = format
		return nil
	},
	"--notificationlevel": func(inv *Invocation, flag, v string) error {
		level, ok := model.ParseNotificationLevel(v)
		if !ok {
			return &ArgumentError{Flag: flag, Value: v, Reason: "Invalid notificationLevel"}
		}
		inv.Params.NotificationLevel = level
		return nil
	},
	"--notificationemail": func(inv *Invocation, _, v string) error {
		if strings.TrimSpace(v) != "" {
			inv.Params.NotificationEmail = v
		}
		return nil
	},
	"--inputfile": func(inv *Invocation, flag, v string) error {
		if err := requireFile(flag, v); err != nil {
			return err
		}
		inv.Params.InputFile = v
		return nil
	},
	"--schemafile": func(inv *Invocation, flag, v string) error {
		if err := requireFile(flag, v); err != nil {
			return err
		}
		inv.Params.SchemaFile = v
		return nil
	},
	"--dataset": func(inv *Invocation, _, v string) error {
		inv.Params.Dataset = v
		return nil
	},
	"--datasetlabel": func(inv *Invocation, _, v string) error {
		inv.Params.DatasetLabel = v
		return nil
	},
	"--app": func(inv *Invocation, _, v string) error {
		inv.Params.App = v
		return nil
	},
	"--rootobject": func(inv *Invocation, _, v string) error {
		inv.Params.RootObject = v
		return nil
	},
	"--fileencoding": func(inv *Invocation, _, v string) error {
		inv.Params.FileEncoding = v
		return nil
	},
	"--usebulkapi": func(inv *Invocation, _, v string) error {
		if strings.EqualFold(strings.TrimSpace(v), "true") {
			inv.Params.UseBulkAPI = true
		}
		return nil
	},
	"--rowlimit": func(inv *Invocation, flag, v string) error {
		n, ok, err := parseTruncatedInt(flag, v)
		if ok {
			inv.Params.RowLimit = n
		}
		return err
	},
	"--chunkmulti": func(inv *Invocation, flag, v string) error {
		n, ok, err := parseTruncatedInt(flag, v)
		if ok {
			inv.Params.ChunkSizeMulti = n
		}
		return err
	},
	"--codingerroraction": func(inv *Invocation, flag, v string) error {
		action, ok := model.ParseCodingErrorAction(v)
		if !ok {
			return &ArgumentError{Flag: flag, Value: v, Reason: "Invalid codingErrorAction"}
		}
		inv.Runtime.CodingErrorAction = action
		return nil
	},
	"--server": func(inv *Invocation, _, v string) error {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			inv.Runtime.Server = true
		case "false":
			inv.Runtime.Server = false
		}
		return nil
	},
	// --debug and --ext switch on whatever value follows them.
	"--debug": func(inv *Invocation, _, _ string) error {
		inv.Runtime.Debug = true
		return nil
	},
	"--ext": func(inv *Invocation, _, _ string) error {
		inv.Runtime.Ext = true
		return nil
	},
}

// ParseArgs turns flag/value tokens into an Invocation.
// The tokens are echoed to out before anything is validated.
func ParseArgs(args []string, out io.Writer) (*Invocation, error) {
	echoArgs(args, out)

	inv := &Invocation{
		Params:  &model.Params{},
		Runtime: config.DefaultRuntime(),
	}

	for i := 0; i < len(args); i += 2 {
		for _, h := range helpTokens {
			if strings.EqualFold(args[i], h) {
				inv.HelpRequested = true
				return inv, nil
			}
		}
	}
	if len(args)%2 != 0 {
		return nil, &ArgumentError{Flag: args[len(args)-1], Reason: "Missing value for argument"}
	}

	for i := 0; i < len(args); i += 2 {
		flag, value := args[i], args[i+1]
		set, ok := flagSetters[strings.ToLower(flag)]
		if !ok {
			return nil, &ArgumentError{Flag: flag, Reason: "Invalid argument"}
		}
		if err := set(inv, flag, value); err != nil {
			return nil, err
		}
	}

	if inv.Params.Username != "" && inv.Params.Endpoint == "" {
		inv.Params.Endpoint = core.DefaultEndpoint
	}
	inv.Params.ApplyDefaults()
	return inv, nil
}

func echoArgs(args []string, out io.Writer) {
	fmt.Fprintf(out, "\nDatasetUtils called with {%d} Params:\n", len(args))
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fmt.Fprintf(out, "{%s}\n", args[i])
			break
		}
		value := args[i+1]
		if maskedFlags[strings.ToLower(args[i])] {
			value = "*******"
		}
		fmt.Fprintf(out, "{%s}:{%s}\n", args[i], value)
	}
	fmt.Fprintln(out)
}

func requireFile(flag, path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &ArgumentError{Flag: flag, Value: path, Reason: "File not found"}
	}
	return nil
}

// parseTruncatedInt parses a decimal number of any precision and truncates it
// toward zero. A blank value is ignored (ok is false, err is nil).
func parseTruncatedInt(flag, value string) (int, bool, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false, nil
	}
	invalid := &ArgumentError{Flag: flag, Value: value, Reason: "Invalid number"}
	if !decimalPattern.MatchString(v) {
		return 0, false, invalid
	}
	r, ok := new(big.Rat).SetString(v)
	if !ok {
		return 0, false, invalid
	}
	n := new(big.Int).Quo(r.Num(), r.Denom())
	if !n.IsInt64() || n.Int64() > math.MaxInt32 || n.Int64() < math.MinInt32 {
		return 0, false, &ArgumentError{Flag: flag, Value: value, Reason: "Number out of range"}
	}
	return int(n.Int64()), true, nil
}
