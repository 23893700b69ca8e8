package cli

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the user for input. Its Confirm makes it a listview.Confirmer.
type Prompter interface {
	Input(message, defaultValue string) (string, error)
	Password(message string) (string, error)
	Select(message string, options []string, defaultValue string) (string, error)
	Confirm(prompt string) (bool, error)
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

func (p *SurveyPrompter) Input(message, defaultValue string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer, p.opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *SurveyPrompter) Password(message string) (string, error) {
	var answer string
	prompt := &survey.Password{Message: message}
	opts := append([]survey.AskOpt{survey.WithValidator(survey.Required)}, p.opts...)
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	var answer string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if defaultValue != "" {
		prompt.Default = defaultValue
	}
	if err := survey.AskOne(prompt, &answer, p.opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *SurveyPrompter) Confirm(message string) (bool, error) {
	answer := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &answer, p.opts...); err != nil {
		return false, err
	}
	return answer, nil
}

// assumeYes answers every confirmation with yes, for --yes.
type assumeYes struct{}

func (assumeYes) Confirm(string) (bool, error) {
	return true, nil
}
