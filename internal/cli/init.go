// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/specportal/specportal/internal/config"
	"github.com/specportal/specportal/internal/specpath"
)

var (
	initForce       bool
	initInteractive bool
	initScaffold    bool
	initLanguages   []string
	initAddr        string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new specportal configuration file",
	Long: `Initialize a new specportal configuration file in the current directory.

This command creates a specportal.yaml file with sensible defaults
that you can customize for your portal. With --scaffold it also creates an
example spec for every language so "specportal serve" has content to show.

Example:
  specportal init                            # Create specportal.yaml
  specportal init --content ./docs           # Use ./docs as the content tree
  specportal init --languages en,ar,fr       # Serve three languages
  specportal init --scaffold                 # Also create example specs
  specportal init --force                    # Overwrite existing config
  specportal init --interactive              # Interactive mode with prompts`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().BoolVar(&initScaffold, "scaffold", false, "create an example spec per language")
	initCmd.Flags().StringSliceVar(&initLanguages, "languages", nil, "content languages (default: en,ar)")
	initCmd.Flags().StringVar(&initAddr, "addr", "", "listen address (default: :8080)")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "specportal.yaml"

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	// Create config with sensible defaults
	cfg := config.Default()
	if contentRoot != "" {
		cfg.Content.Root = contentRoot
	}
	if len(initLanguages) > 0 {
		cfg.Languages = initLanguages
		cfg.DefaultLanguage = initLanguages[0]
	}
	if initAddr != "" {
		cfg.Server.Addr = initAddr
	}

	// Interactive mode
	if initInteractive && isTerminal() {
		var err error
		cfg, err = interactiveInit(cfg, os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	output, err := buildConfigYAML(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, []byte(output), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	printInfo("Created %s", configFile)

	if initScaffold {
		created, err := scaffoldContent(cfg)
		if err != nil {
			return err
		}
		for _, path := range created {
			printInfo("Created %s", path)
		}
	}

	printVerbose("Content root: %s", cfg.Content.Root)
	printVerbose("Languages: %s", strings.Join(cfg.Languages, ", "))
	printVerbose("Address: %s", cfg.Server.Addr)

	return nil
}

// scaffoldSpecs holds the example document per language; other languages
// get the English one.
var scaffoldSpecs = map[string]string{
	"en": `openapi: 3.0.3
info:
  title: Example API
  description: A starting point for your first service.
  version: 1.0.0
paths:
  /greetings:
    get:
      operationId: listGreetings
      summary: List greetings
      responses:
        '200':
          description: The greetings
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Greeting'
components:
  schemas:
    Greeting:
      type: object
      properties:
        message:
          type: string
          example: Hello
        sentAt:
          type: string
          format: date-time
`,
	"ar": `openapi: 3.0.3
info:
  title: واجهة المثال
  description: نقطة بداية لخدمتك الأولى.
  version: 1.0.0
paths:
  /greetings:
    get:
      operationId: listGreetings
      summary: عرض التحيات
      responses:
        '200':
          description: التحيات
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Greeting'
components:
  schemas:
    Greeting:
      type: object
      properties:
        message:
          type: string
          example: مرحبا
        sentAt:
          type: string
          format: date-time
`,
}

// scaffoldContent writes <root>/<lang>/apispecs/example-api/v1/openapi.yaml
// for every language, leaving existing files untouched.
func scaffoldContent(cfg *config.Config) ([]string, error) {
	var created []string
	for _, lang := range cfg.Languages {
		dir := filepath.Join(cfg.Content.Root, lang, specpath.Root, "example-api", "v1")
		path := filepath.Join(dir, "openapi.yaml")
		if _, err := os.Stat(path); err == nil {
			printVerbose("Keeping existing %s", path)
			continue
		}

		content, ok := scaffoldSpecs[lang]
		if !ok {
			content = scaffoldSpecs["en"]
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return created, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return created, fmt.Errorf("failed to write %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts the user for configuration options.
func interactiveInit(cfg *config.Config, in io.Reader, out io.Writer) (*config.Config, error) {
	reader := bufio.NewReader(in)

	prompt := func(label, current string) (string, error) {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return current, nil
		}
		return answer, nil
	}

	root, err := prompt("Content root", cfg.Content.Root)
	if err != nil {
		return nil, err
	}
	cfg.Content.Root = root

	langs, err := prompt("Languages", strings.Join(cfg.Languages, ","))
	if err != nil {
		return nil, err
	}
	cfg.Languages = splitList(langs)

	defaultLang, err := prompt("Default language", cfg.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	cfg.DefaultLanguage = defaultLang

	addr, err := prompt("Listen address", cfg.Server.Addr)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// buildConfigYAML builds a YAML config with a header comment.
func buildConfigYAML(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	header := `# specportal configuration file
#
# Specs are read from <content.root>/<language>/apispecs/<service>/<version>/*.yaml
# Environment variables prefixed with SPECPORTAL_ override these values,
# e.g. SPECPORTAL_SERVER_ADDR=:9000

`
	return header + string(data), nil
}
