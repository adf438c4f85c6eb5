package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rorishop",
	Short: "Retrieval-augmented chat assistant for the Rorishop store",
	Long: `Rorishop chatbot answers customer questions about products, sizing,
pricing, and shop policy. It retrieves relevant chunks from a prebuilt
vector index and feeds them, with a fixed persona prompt, to a hosted
generative model.`,
	PersistentPreRun: loadDotEnv,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadDotEnv(_ *cobra.Command, _ []string) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
}
