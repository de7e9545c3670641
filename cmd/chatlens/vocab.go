package main

import (
	"github.com/spf13/cobra"
)

func newVocabCommand() *cobra.Command {
	var vocabFile string

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Print the effective vocabulary as YAML",
		Long: `Print the vocabulary the analyser matches against. With --vocab the
file is merged over the defaults first, so the output is a complete,
editable starting point for an override file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVocabulary(vocabFile)
			if err != nil {
				return err
			}
			data, err := v.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&vocabFile, "vocab", "", "YAML file overriding the default vocabularies")

	return cmd
}
