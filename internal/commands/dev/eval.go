package dev

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// evalPackage is the import path the eval symbols are exported under.
const evalPackage = "github.com/PancyStudios/PancyModGo/internal/commands/dev"

const maxEvalOutput = 1900

func (d *Deps) createEvalCommand() *discord.Command {
	return discord.NewCommand(
		"eval",
		"Evalúa código Go contra el estado del bot (Peligroso)",
		"dev",
		d.evalHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "codigo",
			Description: "Código o expresión Go a evaluar",
			Required:    true,
		},
	).AsDev()
}

func (d *Deps) evalHandler(ctx *discord.CommandContext) error {
	if !d.isDev(ctx) {
		return ctx.ReplyEphemeral("❌ **Acceso Denegado:** Este comando es solo para desarrolladores.")
	}

	go func() {
		defer errors.RecoverMiddleware()()
		start := time.Now()

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error difiriendo eval: %v", err), "DevEval")
			return
		}

		logger.Warn(fmt.Sprintf("Eval ejecutado por %s", ctx.User().ID), "DevEval")
		output := d.eval(ctx, stripCodeFence(ctx.GetStringOption("codigo")))
		logger.Debug(fmt.Sprintf("Eval completado en %s", time.Since(start)), "DevEval")

		ctx.EditReply(output)
	}()
	return nil
}

// eval runs code with the bot's state exported as Ctx, Bot, Correlator, DB
// and Config.
func (d *Deps) eval(ctx *discord.CommandContext, code string) string {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Sprintf("❌ Error cargando stdlib: %v", err)
	}

	exports := map[string]reflect.Value{
		"Ctx":        reflect.ValueOf(ctx),
		"Bot":        reflect.ValueOf(ctx.Client),
		"Correlator": reflect.ValueOf(d.Correlator),
		"DB":         reflect.ValueOf(d.DB),
		"Config":     reflect.ValueOf(d.Config),
	}
	if err := i.Use(interp.Exports{evalPackage + "/dev": exports}); err != nil {
		return fmt.Sprintf("❌ Error registrando variables: %v", err)
	}
	if _, err := i.Eval(`import . "` + evalPackage + `"`); err != nil {
		return fmt.Sprintf("❌ Error importando variables: %v", err)
	}

	res, err := i.Eval(code)
	if err != nil {
		return fmt.Sprintf("❌ **Error de Ejecución:**\n```go\n%v\n```", err)
	}
	return fmt.Sprintf("✅ **Resultado:**\n```go\n%s\n```", formatResult(res))
}

func stripCodeFence(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimPrefix(code, "```go")
	code = strings.TrimPrefix(code, "```")
	code = strings.TrimSuffix(code, "```")
	return strings.TrimSpace(code)
}

func formatResult(res reflect.Value) string {
	if !res.IsValid() {
		return "nil"
	}
	out := fmt.Sprintf("%#v", res.Interface())
	if r := []rune(out); len(r) > maxEvalOutput {
		out = string(r[:maxEvalOutput]) + "... (truncado)"
	}
	return out
}
