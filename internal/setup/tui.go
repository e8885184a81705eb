package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/avoverin/coindash/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// GeneratedConfigFile is where the wizard writes its result.
const GeneratedConfigFile = "config.gen.yaml"

// RunTUI launches the terminal configuration wizard and writes the
// resulting dashboard config to config.gen.yaml.
func RunTUI() error {
	var accounts []config.FileAccount

	for {
		account, err := promptAccount(len(accounts) + 1)
		if err != nil {
			return err
		}
		accounts = append(accounts, account)

		var addMore bool
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Track another account?").
					Affirmative("Yes, add one more").
					Negative("No, continue").
					Value(&addMore),
			),
		).Run()
		if err != nil {
			return err
		}
		if !addMore {
			break
		}
	}

	// listen address
	listenAddr := ":8080"
	printHeader("DASHBOARD")
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard Listen Address").
				Description("host:port, e.g. :8080 or 127.0.0.1:9090").
				Value(&listenAddr).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("listen address cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	printHeader("FINAL CONFIRMATION")

	summary := fmt.Sprintf("Listen: %s\nAccounts:\n", listenAddr)
	for _, a := range accounts {
		summary += fmt.Sprintf("  %s @ %s (poll %s)\n", a.Label, a.Platform, a.PollInterval)
	}
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	var confirm bool
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	data, err := yaml.Marshal(config.FileConfig{
		Listen:   listenAddr,
		Accounts: accounts,
	})
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if err := os.WriteFile(GeneratedConfigFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting dashboard...", GeneratedConfigFile)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func promptAccount(n int) (config.FileAccount, error) {
	var (
		platform        string
		label           string
		pollIntervalStr = "15s"
		demoSeedStr     = "0"
	)

	printHeader(fmt.Sprintf("ACCOUNT %d: PLATFORM", n))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Exchange Platform").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Demo (synthetic balances)", "demo"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return config.FileAccount{}, err
	}

	printHeader(fmt.Sprintf("ACCOUNT %d: DETAILS", n))
	fields := []huh.Field{
		huh.NewInput().
			Title("Account Label").
			Description("Unique name shown on the dashboard (e.g. main, paper)").
			Value(&label).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("label cannot be empty")
				}
				return nil
			}),
		huh.NewInput().
			Title("Poll Interval").
			Description("Duration string, at least 1s (e.g. 15s, 1m)").
			Value(&pollIntervalStr).
			Validate(validatePollInterval),
	}
	if platform == "demo" {
		fields = append(fields, huh.NewInput().
			Title("Demo Seed").
			Description("Random seed for synthetic balances, 0 for default").
			Value(&demoSeedStr).
			Validate(func(s string) error {
				_, err := strconv.ParseInt(s, 10, 64)
				return err
			}),
		)
	}
	err = huh.NewForm(huh.NewGroup(fields...)).Run()
	if err != nil {
		return config.FileAccount{}, err
	}

	pollInterval, _ := time.ParseDuration(pollIntervalStr)
	demoSeed, _ := strconv.ParseInt(demoSeedStr, 10, 64)

	account := config.FileAccount{
		Label:        label,
		Platform:     platform,
		PollInterval: pollInterval,
	}
	if platform == "demo" {
		account.DemoSeed = demoSeed
	}
	return account, nil
}

func printHeader(step string) {
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("COINDASH CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Point it at your exchange accounts, get one dashboard.\n"))
	fmt.Println(stepStyle.Render(step))
}

func validatePollInterval(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d < time.Second {
		return fmt.Errorf("must be at least 1s")
	}
	return nil
}
