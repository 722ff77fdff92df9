package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"lending/core"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

var paramsCmd = &cobra.Command{
	Use:     "params",
	Aliases: []string{"parameters"},
	Short:   "show protocol parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		database := provideDatabase()
		defer database.Close()

		params, err := provideParameterStore(providePropertyStore(database)).Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd, params)
	},
}

var setParamsCmd = &cobra.Command{
	Use:     "set key=value...",
	Short:   "update protocol parameters, e.g. params set close_factor=500 paused=true",
	Example: "lending params set liquidation_threshold=800 rate_model=linear",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := parsePatch(args)
		if err != nil {
			return err
		}

		database := provideDatabase()
		defer database.Close()

		params, err := provideParameterStore(providePropertyStore(database)).Update(cmd.Context(), patch)
		if err != nil {
			return err
		}

		return printJSON(cmd, params)
	},
}

// parsePatch key=value pairs keyed by the json names of core.Parameters
func parsePatch(args []string) (*core.ParametersPatch, error) {
	kinds := map[string]interface{}{}
	for _, f := range structs.Fields(core.DefaultParameters()) {
		name := strings.Split(f.Tag("json"), ",")[0]
		kinds[name] = f.Value()
	}

	values := map[string]interface{}{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not key=value", arg)
		}

		kind, ok := kinds[key]
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", key)
		}

		v, err := castParam(kind, value)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", key, err)
		}

		values[key] = v
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}

	var patch core.ParametersPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return nil, err
	}

	return &patch, nil
}

func castParam(kind interface{}, value string) (interface{}, error) {
	switch kind.(type) {
	case core.Permille, int64:
		return cast.ToInt64E(value)
	case int:
		return cast.ToIntE(value)
	case bool:
		return cast.ToBoolE(value)
	case decimal.Decimal:
		return decimal.NewFromString(value)
	default:
		return value, nil
	}
}

func init() {
	rootCmd.AddCommand(paramsCmd)
	paramsCmd.AddCommand(setParamsCmd)
}
