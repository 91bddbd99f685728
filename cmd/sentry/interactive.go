package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"StockSentry/internal/config"
	"StockSentry/internal/model"
	"StockSentry/internal/notifier"
	"StockSentry/internal/strategy"
)

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// chooseCondition re-prompts until the input names a known condition.
func chooseCondition(r *bufio.Reader) model.ConditionType {
	for {
		switch prompt(r, "Choose condition (1-2): ") {
		case "1":
			return model.ConditionBelow
		case "2":
			return model.ConditionAbove
		}
		fmt.Println("Please enter 1 or 2.")
	}
}

// chooseAction re-prompts until the input names a known action.
func chooseAction(r *bufio.Reader) model.ActionType {
	for {
		switch prompt(r, "Choose action (1-3): ") {
		case "1":
			return model.ActionNotify
		case "2":
			return model.ActionBuy
		case "3":
			return model.ActionSell
		}
		fmt.Println("Please enter 1, 2 or 3.")
	}
}

// runSetup walks the user through SMTP configuration, verifies the
// connection, and writes the result back to the config file.
func runSetup(cfg *config.Config, cfgPath string) {
	r := bufio.NewReader(os.Stdin)

	fmt.Println("Email notification setup")
	fmt.Println("Known SMTP providers:")
	fmt.Println("  1. Gmail (smtp.gmail.com)")
	fmt.Println("  2. QQ Mail (smtp.qq.com)")
	fmt.Println("  3. 163 Mail (smtp.163.com)")
	fmt.Println("  4. Custom")

	hosts := map[string]string{
		"1": "smtp.gmail.com",
		"2": "smtp.qq.com",
		"3": "smtp.163.com",
	}
	choice := prompt(r, "\nChoose a provider (1-4): ")
	host, ok := hosts[choice]
	if !ok {
		host = prompt(r, "SMTP server address: ")
	}

	sender := prompt(r, "Sender email: ")
	password := prompt(r, "Password / app password: ")
	recipient := prompt(r, "Recipient email for alerts: ")

	cfg.Email.Enabled = true
	cfg.Email.Sender = sender
	cfg.Email.Password = password
	cfg.Email.Recipient = recipient
	cfg.Email.SMTPHost = host

	n := notifier.NewEmailNotifier(cfg.Email)
	fmt.Println("\nTesting SMTP connection...")
	if err := n.TestConnection(); err != nil {
		fmt.Printf("Connection test failed: %v\n", err)
		fmt.Println("Configuration NOT saved. Check the settings and retry.")
		return
	}
	fmt.Println("Connection OK.")

	if strings.EqualFold(prompt(r, "Send a test email? (y/N): "), "y") {
		if err := n.SendTestEmail(recipient); err != nil {
			fmt.Printf("Test email failed: %v\n", err)
		} else {
			fmt.Println("Test email sent.")
		}
	}

	if err := cfg.Save(cfgPath); err != nil {
		log.Fatalf("[FATAL] save config: %v", err)
	}
	fmt.Printf("Configuration saved to %s\n", cfgPath)
}

// runAddStrategy creates one strategy from interactive input.
func runAddStrategy(mgr *strategy.Manager) {
	r := bufio.NewReader(os.Stdin)

	fmt.Println("Add a monitoring strategy")
	fmt.Println("Supported symbols:")
	fmt.Println("  US stocks:  AAPL, MSFT, GOOGL, TSLA ...")
	fmt.Println("  HK stocks:  0700.HK (Tencent), 0941.HK (China Mobile) ...")
	fmt.Println("  Bitcoin:    BTC")
	fmt.Println()

	name := prompt(r, "Strategy name: ")
	symbol := strings.ToUpper(prompt(r, "Symbol: "))

	fmt.Println("\nTrigger condition:")
	fmt.Println("  1. below - fire when price drops to or below target")
	fmt.Println("  2. above - fire when price rises to or above target")
	cond := chooseCondition(r)

	targetStr := prompt(r, "Target price: ")
	target, err := strconv.ParseFloat(targetStr, 64)
	if err != nil {
		fmt.Printf("Invalid price %q: %v\n", targetStr, err)
		return
	}

	fmt.Println("\nAction on trigger:")
	fmt.Println("  1. notify - alert only")
	fmt.Println("  2. buy    - buy recommendation")
	fmt.Println("  3. sell   - sell recommendation")
	action := chooseAction(r)

	id, err := mgr.CreateStrategy(name, symbol, cond, target, action)
	if err != nil {
		fmt.Printf("Create strategy failed: %v\n", err)
		return
	}
	fmt.Printf("Strategy created, id=%d\n", id)
	fmt.Printf("  %s: %s price %s %.2f -> %s\n", name, symbol, cond, target, action)
}

// runList prints counts and the active strategies.
func runList(mgr *strategy.Manager) {
	status, err := mgr.StatusSummary()
	if err != nil {
		log.Fatalf("[FATAL] load status: %v", err)
	}
	sum := status.Summary
	fmt.Printf("Strategies: %d total, %d active, %d triggered\n", sum.Total, sum.Active, sum.Triggered)

	if sum.Active == 0 {
		fmt.Println("No active strategies.")
		return
	}

	fmt.Println("\nActive strategies:")
	i := 0
	for symbol, list := range status.BySymbol {
		for _, s := range list {
			i++
			fmt.Printf("%d. %s\n", i, s.Name)
			fmt.Printf("   symbol: %s | condition: %s %.2f | action: %s | created: %s\n",
				symbol, s.Condition, s.TargetPrice, s.Action, s.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
}

// seedDemo loads a handful of example strategies and runs one pass so the
// dashboard has data to show.
func seedDemo(mgr *strategy.Manager) {
	demos := []struct {
		name   string
		symbol string
		cond   model.ConditionType
		target float64
		action model.ActionType
	}{
		{"Apple dip buy", "AAPL", model.ConditionBelow, 170.0, model.ActionBuy},
		{"Tencent breakout", "0700.HK", model.ConditionAbove, 350.0, model.ActionNotify},
		{"Bitcoin pullback buy", "BTC", model.ConditionBelow, 60000.0, model.ActionBuy},
		{"Microsoft take profit", "MSFT", model.ConditionAbove, 450.0, model.ActionSell},
		{"Tesla price watch", "TSLA", model.ConditionBelow, 200.0, model.ActionNotify},
	}

	fmt.Printf("Seeding %d demo strategies:\n", len(demos))
	for _, d := range demos {
		if _, err := mgr.CreateStrategy(d.name, d.symbol, d.cond, d.target, d.action); err != nil {
			fmt.Printf("  failed: %s: %v\n", d.name, err)
			continue
		}
		fmt.Printf("  added: %s (%s %s %.2f)\n", d.name, d.symbol, d.cond, d.target)
	}

	fmt.Println("\nRunning one evaluation pass...")
	events, err := mgr.EvaluateTriggers()
	if err != nil {
		fmt.Printf("Evaluation failed: %v\n", err)
		return
	}
	fmt.Printf("Triggered %d strategies.\n", len(events))

	status, err := mgr.StatusSummary()
	if err == nil {
		fmt.Printf("Now: %d total, %d active, %d triggered, %d symbols watched\n",
			status.Summary.Total, status.Summary.Active, status.Summary.Triggered, len(status.BySymbol))
	}
	fmt.Println("Start the dashboard with: sentry -web")
}
