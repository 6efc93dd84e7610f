package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateKeepsRunesWhole(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Alimentação", truncate("Alimentação", 11))
	require.Equal(t, "Alimentaçã…", truncate("Alimentação mensal", 11))
	require.Equal(t, "Educação…", truncate("Educação dos filhos", 9))
	require.Equal(t, "short", truncate("short", 10))
}

func TestAssistantErrorUnblocksChat(t *testing.T) {
	t.Parallel()

	a := &App{thinking: true}
	model, _ := a.Update(errMsg{errors.New("provider down")})
	a = model.(*App)
	require.False(t, a.thinking)
	require.Equal(t, "error: provider down", a.status)
}
