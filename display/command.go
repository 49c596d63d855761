package display

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/errors"
)

// ShouldOutputJSON reports whether a command should print JSON. An explicit
// --json flag wins; otherwise fallback (usually output.json from config).
func ShouldOutputJSON(cmd *cobra.Command, fallback bool) bool {
	if cmd == nil {
		return fallback
	}

	// Check if --json flag was explicitly set
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}
	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil && f.Changed {
		jsonFlag, _ := cmd.Root().PersistentFlags().GetBool("json")
		return jsonFlag
	}

	return fallback
}

// OutputJSON marshals v with MarshalJSON and prints it to w
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
