package smp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gotr/internal/crypto"
	domaintypes "gotr/internal/domain/types"
	"gotr/internal/smp"
)

func TestEngine_MatchingSecretsSucceed(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	initiator := smp.New(cp)
	responder := smp.New(cp)

	secret := []byte("correct horse battery staple")

	smp1, err := initiator.InitiateSecret("what's the word?", secret)
	require.NoError(err)

	_, consumed, err := responder.HandleTLV(smp1[0])
	require.NoError(err, "responder HandleTLV(SMP1)")
	require.True(consumed, "responder HandleTLV(SMP1)")
	require.True(responder.InProgress(), "responder should be InProgress after SMP1")

	smp2, err := responder.RespondSecret("what's the word?", secret)
	require.NoError(err)

	smp3, consumed, err := initiator.HandleTLV(smp2[0])
	require.NoError(err, "initiator HandleTLV(SMP2)")
	require.True(consumed, "initiator HandleTLV(SMP2)")
	require.Len(smp3, 1)
	require.Equal(domaintypes.TLVSMP3, smp3[0].Type)

	smp4, consumed, err := responder.HandleTLV(smp3[0])
	require.NoError(err, "responder HandleTLV(SMP3)")
	require.True(consumed, "responder HandleTLV(SMP3)")
	require.Len(smp4, 1)
	require.Equal(domaintypes.TLVSMP4, smp4[0].Type)

	_, consumed, err = initiator.HandleTLV(smp4[0])
	require.NoError(err, "initiator HandleTLV(SMP4)")
	require.True(consumed, "initiator HandleTLV(SMP4)")

	require.False(initiator.InProgress(), "exchange should have completed on both sides")
	require.False(responder.InProgress(), "exchange should have completed on both sides")
}

func TestEngine_MismatchedSecretsAbort(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	initiator := smp.New(cp)
	responder := smp.New(cp)

	smp1, _ := initiator.InitiateSecret("", []byte("secret-a"))
	_, _, err := responder.HandleTLV(smp1[0])
	require.NoError(err, "responder HandleTLV(SMP1)")

	smp2, err := responder.RespondSecret("", []byte("secret-b"))
	require.NoError(err)

	reply, consumed, err := initiator.HandleTLV(smp2[0])
	require.ErrorIs(err, smp.ErrMismatch)
	require.True(consumed, "mismatch reply should still be consumed")
	require.Len(reply, 1)
	require.Equal(domaintypes.TLVSMPAbort, reply[0].Type)
	require.False(initiator.InProgress(), "initiator should have reset after mismatch")
}

func TestEngine_AbortWhenIdleIsNoop(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	e := smp.New(cp)
	require.Nil(e.Abort(), "expected no tlv from aborting an idle engine")
}
