package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sketch/internal/transport"
)

var shareCmd = &cobra.Command{
	Use:   "share [file]",
	Short: "Encode a script into a shareable playground link",
	Long:  `Encode a script into the compact URL-safe form the playground embeds in share links, or decode one back with --decode`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShare,
}

func init() {
	shareCmd.Flags().String("decode", "", "decode an encoded script instead of encoding")
	shareCmd.Flags().Bool("raw", false, "print only the encoded payload, not the full link")
}

func runShare(cmd *cobra.Command, args []string) error {
	encoded, err := cmd.Flags().GetString("decode")
	if err != nil {
		return fmt.Errorf("failed to get decode flag: %w", err)
	}
	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return fmt.Errorf("failed to get raw flag: %w", err)
	}

	codec := transport.FlateCodec{}
	if encoded != "" {
		script, err := codec.Decode(encoded)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		fmt.Fprint(cmd.OutOrStdout(), script)
		return nil
	}

	tc, err := newToolchain(cmd)
	if err != nil {
		return err
	}
	script, err := readScript(args)
	if err != nil {
		return err
	}
	payload, err := codec.Encode(script)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true
	if raw {
		fmt.Fprintln(cmd.OutOrStdout(), payload)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s/?script=%s\n", tc.cfg.Render.Endpoint, payload)
	return nil
}
