package siginput

import (
	"encoding/hex"
	"testing"

	"github.com/ivoronin/sctvet/internal/sct"
)

// Test vector reproduced from certificate-transparency-go's signature test
// suite: a real certificate DER and the SCT timestamp of the leaf signature
// input a log signed over it.
const testCertHex = "308202ca30820233a003020102020102300d06092a864886f70d01010505003055310b300" +
	"906035504061302474231243022060355040a131b4365727469666963617465205472616e" +
	"73706172656e6379204341310e300c0603550408130557616c65733110300e06035504071" +
	"3074572772057656e301e170d3132303630313030303030305a170d323230363031303030" +
	"3030305a3052310b30090603550406130247423121301f060355040a13184365727469666" +
	"963617465205472616e73706172656e6379310e300c0603550408130557616c6573311030" +
	"0e060355040713074572772057656e30819f300d06092a864886f70d010101050003818d0" +
	"030818902818100b8742267898b99ba6bfd6e6f7ada8e54337f58feb7227c46248437ba5f" +
	"89b007cbe1ecb4545b38ed23fddbf6b9742cafb638157f68184776a1b38ab39318ddd7344" +
	"89b4d750117cd83a220a7b52f295d1e18571469a581c23c68c57d973761d9787a091fb586" +
	"4936b166535e21b427e3c6d690b2e91a87f36b7ec26f59ce53b50203010001a381ac3081a" +
	"9301d0603551d0e041604141184e1187c87956dffc31dd0521ff564efbeae8d307d060355" +
	"1d23047630748014a3b8d89ba2690dfb48bbbf87c1039ddce56256c6a159a4573055310b3" +
	"00906035504061302474231243022060355040a131b436572746966696361746520547261" +
	"6e73706172656e6379204341310e300c0603550408130557616c65733110300e060355040" +
	"713074572772057656e82010030090603551d1304023000300d06092a864886f70d010105" +
	"050003818100292ecf6e46c7a0bcd69051739277710385363341c0a9049637279707ae23c" +
	"c5128a4bdea0d480ed0206b39e3a77a2b0c49b0271f4140ab75c1de57aba498e09459b479" +
	"cf92a4d5d5dd5cbe3f0a11e25f04078df88fc388b61b867a8de46216c0e17c31fc7d8003e" +
	"cc37be22292f84242ab87fb08bd4dfa3c1b9ce4d3ee6667da"

const testTimestampMillis = 1348589665525

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	return b
}

func TestBuildLeafLayout(t *testing.T) {
	certDER := mustHex(t, testCertHex)
	s := sct.SignedCertificateTimestamp{
		Version:         0,
		TimestampMillis: testTimestampMillis,
	}

	got := BuildLeaf(s, certDER)

	// Reconstruct the expected layout by hand from the spec's wire format
	// and compare byte for byte.
	want := []byte{0x00, 0x00} // sct_version=0, signature_type=0
	var ts [8]byte
	tsVal := uint64(testTimestampMillis)
	for i := 7; i >= 0; i-- {
		ts[i] = byte(tsVal)
		tsVal >>= 8
	}
	want = append(want, ts[:]...)
	want = append(want, 0x00, 0x00) // entry_type = 0 (x509_entry)
	certLen := len(certDER)
	want = append(want, byte(certLen>>16), byte(certLen>>8), byte(certLen))
	want = append(want, certDER...)
	want = append(want, 0x00, 0x00) // empty extensions

	if string(got) != string(want) {
		t.Fatalf("BuildLeaf layout mismatch:\ngot  %x\nwant %x", got, want)
	}
}

func TestBuildPrecertIncludesIssuerKeyHash(t *testing.T) {
	var keyHash [32]byte
	for i := range keyHash {
		keyHash[i] = byte(i)
	}
	tbs := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	s := sct.SignedCertificateTimestamp{Version: 0, TimestampMillis: 42}
	got := BuildPrecert(s, keyHash, tbs)

	// version, sig_type, 8-byte timestamp, 2-byte entry_type = 12 bytes prefix.
	const prefix = 12
	if string(got[prefix:prefix+32]) != string(keyHash[:]) {
		t.Fatalf("issuer key hash not found at expected offset")
	}
	gotTBSLen := int(got[prefix+32])<<16 | int(got[prefix+33])<<8 | int(got[prefix+34])
	if gotTBSLen != len(tbs) {
		t.Fatalf("tbs length = %d, want %d", gotTBSLen, len(tbs))
	}
	if string(got[prefix+35:prefix+35+len(tbs)]) != string(tbs) {
		t.Fatal("tbs bytes not found at expected offset")
	}
}
