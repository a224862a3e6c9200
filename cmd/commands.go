package cmd

func init() {
	rootCmd.AddCommand(
		NewLoginCommand(),
		NewLogoutCommand(),
		NewConfigureCommand(),
		NewStatusCommand(),
		NewListCommand(),
		NewProfilesCommand(),
		NewServeCommand(),
		NewUpdateCommand(),
		NewVersionCommand(),
	)
}
