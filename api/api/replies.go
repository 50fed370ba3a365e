/* replies.go
 * Contains the conversational texts the bot answers with. Every outcome of a command, errors included,
 * reaches the user as one of these
 */

package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"poolmanager-bot/api/logic"
	"poolmanager-bot/api/store"
)

const displayTimeLayout = "2006-01-02 15:04"

const (
	replyWelcome = "👋 ¡Hola! Bienvenido a PoolManager.\n" +
		"Aquí podrás apuntarte a pools de pádel, recibir notificaciones y ver tus horarios.\n" +
		"Escribe 'ayuda' para ver todos los comandos disponibles."
	replyUnknown       = "❌ Comando no reconocido. Escribe 'ayuda'."
	replyNoPools       = "No hay pools disponibles"
	replyNoRegistered  = "No estás apuntado a ninguna pool"
	replyInvalidIndex  = "❌ Número de pool no válido. Escribe 'lista_pools' para ver las pools disponibles."
	replyPoolNotFound  = "❌ Pool no encontrada"
	replyStoreError    = "⚠️ No he podido guardar los cambios. Inténtalo de nuevo en unos minutos."
	replyCreateUsage   = "❌ Error creando pool. Usa: crear_pool \"<nombre>\" <precio> <horario> <apertura_iso> <pistas>"
	replyNotifyUsage   = "❌ Error notificando. Usa: notificar <pool> <mensaje>"
	replyAlertUsage    = "❌ Error apuntando alerta. Usa: apuntarme_alerta <pool>"
	replySignupUsage   = "❌ Error apuntándote. Usa: apuntarme <pool> [<pareja>] [<lado>]"
	replyWithdrawUsage = "❌ Error quitándote. Usa: quitarme <pool>"
	replyCompletionFmt = "❌ Formato no válido. Responde 'solo <lado>' o '<pareja> <lado>' (lado: derecha, revés o da igual)."
	replyHelp          = "Comandos:\n" +
		"- lista_pools\n" +
		"- <número> para elegir una pool de la lista\n" +
		"- apuntarme <pool> [<pareja>] [<lado>]\n" +
		"- apuntarme_alerta <pool>\n" +
		"- quitarme <pool>\n" +
		"- mis_pools\n" +
		"- ayuda\n" +
		"Admins: crear_pool, notificar"
)

func replyPoolCreated(pool store.Pool) string {
	return fmt.Sprintf("✅ Pool '%s' creada con ID %s", pool.Name, pool.ID)
}

func replyDuplicatePool(id string) string {
	return fmt.Sprintf("❌ Ya existe una pool con ID %s", id)
}

func replyNotified(pool store.Pool, recipients int) string {
	return fmt.Sprintf("✅ Mensaje enviado a la pool %s (%d destinatarios)", pool.Name, recipients)
}

func replyAmbiguous(ref string) string {
	return fmt.Sprintf("❌ '%s' coincide con varias pools. Usa el ID exacto de 'lista_pools'.", ref)
}

func replyNotOpenYet(pool store.Pool, loc *time.Location) string {
	return fmt.Sprintf("⏳ La inscripción para %s abre el %s. Usa 'apuntarme_alerta %s' para ser avisado.",
		pool.Name, pool.OpenAt.In(loc).Format(displayTimeLayout), pool.ID)
}

func replyNoSlots(pool store.Pool) string {
	return fmt.Sprintf("😔 No quedan plazas libres en %s", pool.Name)
}

func replyChooseSide(pool store.Pool) string {
	return fmt.Sprintf("Has elegido %s. Responde 'solo <lado>' o '<pareja> <lado>' (lado: derecha, revés o da igual).", pool.Name)
}

func replyAlreadyRegistered(pool store.Pool) string {
	return fmt.Sprintf("ℹ️ Ya estás apuntado a %s", pool.Name)
}

func replyRegistered(pool store.Pool, reg store.Registration) string {
	var b strings.Builder
	if reg.Partner != "" {
		fmt.Fprintf(&b, "✅ Te has apuntado con tu pareja (%s) a %s", reg.Partner, pool.Name)
	} else {
		fmt.Fprintf(&b, "✅ Te has apuntado solo a %s", pool.Name)
	}
	if reg.Side != "" {
		fmt.Fprintf(&b, " - Lado: %s", reg.Side)
	}
	return b.String()
}

func replyAlertSet(pool store.Pool) string {
	return fmt.Sprintf("✅ Te avisaré cuando se abra la inscripción para %s", pool.Name)
}

func replyAlreadyOpen(pool store.Pool) string {
	return fmt.Sprintf("🟢 La inscripción para %s ya está abierta. Envía 'apuntarme %s' para unirte.", pool.Name, pool.ID)
}

func replyWithdrawn(pool store.Pool) string {
	return fmt.Sprintf("✅ Te he quitado de %s", pool.Name)
}

func replyNotInPool(pool store.Pool) string {
	return fmt.Sprintf("ℹ️ No estabas apuntado a %s", pool.Name)
}

// formatPrice renders 10 as "10" and 10.5 as "10.5"
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// formatPoolList renders the numbered listing. Numbers are what users send back to select a pool
func formatPoolList(pools []store.Pool, now time.Time, loc *time.Location) string {
	if len(pools) == 0 {
		return replyNoPools
	}

	var b strings.Builder
	b.WriteString("Pools disponibles:")
	for i, p := range pools {
		status := "🟢 Abierta"
		if !p.IsOpen(now) {
			status = "⏳ Apertura: " + p.OpenAt.In(loc).Format(displayTimeLayout)
		}
		fmt.Fprintf(&b, "\n%d. %s (%s) - Precio: %s€ - Horario: %s - %s - Plazas libres: %d",
			i+1, p.Name, p.ID, formatPrice(p.Price), p.Schedule, status, logic.FreeSlots(p))
	}
	return b.String()
}

func formatMyPools(pools []store.Pool, user string) string {
	var b strings.Builder
	for _, p := range pools {
		for _, reg := range p.PlayersFor(user) {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- %s (%s) - Horario: %s", p.Name, p.ID, p.Schedule)
			if reg.Partner != "" {
				fmt.Fprintf(&b, " - Pareja: %s", reg.Partner)
			}
			if reg.Side != "" {
				fmt.Fprintf(&b, " - Lado: %s", reg.Side)
			}
		}
	}
	if b.Len() == 0 {
		return replyNoRegistered
	}
	return "Tus pools:\n" + b.String()
}
