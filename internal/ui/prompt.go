package ui

import (
	"fmt"
	"os"

	"github.com/Iilun/survey/v2"
	"github.com/aaearon/tabrotate/internal/tableau/models"
)

func ask(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	if !IsInteractive() {
		return ErrNotInteractive
	}
	opts = append(opts, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr))
	return survey.AskOne(p, response, opts...)
}

// PromptText asks for a single line of input, pre-filled with def.
func PromptText(message, def string, required bool) (string, error) {
	var answer string
	var opts []survey.AskOpt
	if required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if err := ask(&survey.Input{Message: message, Default: def}, &answer, opts...); err != nil {
		return "", fmt.Errorf("input failed: %w", err)
	}
	return answer, nil
}

// PromptSecret asks for a value without echoing it.
func PromptSecret(message string) (string, error) {
	var answer string
	if err := ask(&survey.Password{Message: message}, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("input failed: %w", err)
	}
	return answer, nil
}

// PromptConnectionFields collects the new server, port and username, defaulting
// each to the group's current value. The password is asked for separately.
func PromptConnectionFields(key models.GroupKey) (models.ConnectionUpdate, error) {
	var update models.ConnectionUpdate
	var err error

	if update.ServerAddress, err = PromptText("Server address:", key.ServerAddress, key.ServerAddress != ""); err != nil {
		return update, err
	}
	if update.ServerPort, err = PromptText("Server port:", key.ServerPort, false); err != nil {
		return update, err
	}
	if update.UserName, err = PromptText("Username:", key.UserName, false); err != nil {
		return update, err
	}

	return update, nil
}

// ConfirmRotation prompts the user to confirm updating every member of a group.
func ConfirmRotation(group models.ConnectionGroup) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Update %s in group %s?", CountNoun(len(group.Members), "connection"), group.Key),
		Default: false,
	}

	if err := ask(prompt, &confirmed); err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}

	return confirmed, nil
}
