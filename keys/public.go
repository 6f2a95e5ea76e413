package keys

import (
	"fmt"
	"sync"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/central"
	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/mq"
	"github.com/BackendStack21/rainbow-go/utils"
)

// DomainFingerprint separates public key fingerprints from other hashes.
const DomainFingerprint = "rainbow-pk-fingerprint-v1"

// PublicKey is the system of m quadratic polynomials over n variables. It
// holds no reference to the secret key it was derived from.
type PublicKey struct {
	Params rainbow.Params
	Polys  []*mq.Quadratic
}

// Eval evaluates every public polynomial on x.
func (pk *PublicKey) Eval(x gf16.Vector) gf16.Vector {
	if len(x) != pk.Params.N() {
		panic(fmt.Sprintf("keys: PublicKey.Eval: dimension mismatch (%d != %d)", len(x), pk.Params.N()))
	}
	x.MustBeValid("PublicKey.Eval")
	out := gf16.NewVector(len(pk.Polys))
	for i, p := range pk.Polys {
		out[i] = p.Eval(x)
	}
	return out
}

// Fingerprint returns the domain separated SHA3-256 hash of the encoded key.
func (pk *PublicKey) Fingerprint() ([]byte, error) {
	data, err := pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return utils.HashWithDomain(DomainFingerprint, data), nil
}

// Derive computes P = S o F o T.
//
// Every central polynomial is first rewritten over the public variables by
// substituting x = M_T x' + v_T (composeWithT). The public polynomials are
// then the S-weighted sums of those, with S's translation added to each
// constant. Both steps run one goroutine per output.
func Derive(sk *SecretKey) *PublicKey {
	n, m := sk.Params.N(), sk.Params.M()
	l1, l2 := sk.F.Layers()

	type job struct {
		layer *central.Layer
		poly  int
	}
	jobs := make([]job, 0, m)
	for i := 0; i < l1.Oils(); i++ {
		jobs = append(jobs, job{l1, i})
	}
	for i := 0; i < l2.Oils(); i++ {
		jobs = append(jobs, job{l2, i})
	}

	g := make([]*mq.Quadratic, m)
	var wg sync.WaitGroup
	wg.Add(m)
	for j := range jobs {
		go func(j int) {
			defer wg.Done()
			layer := jobs[j].layer
			poly := &layer.Polynomials()[jobs[j].poly]
			g[j] = composeWithT(poly, layer.Vinegars(), sk.T.Matrix(), sk.T.Vector())
		}(j)
	}
	wg.Wait()

	sMatrix, sVector := sk.S.Matrix(), sk.S.Vector()
	polys := make([]*mq.Quadratic, m)
	wg.Add(m)
	for i := 0; i < m; i++ {
		go func(i int) {
			defer wg.Done()
			acc := mq.NewZero(n)
			for j, coeff := range sMatrix[i] {
				if coeff == 0 {
					continue
				}
				acc = mq.Combine(acc, mq.Scale(g[j], coeff))
			}
			acc.AddToConstant(sVector[i])
			polys[i] = acc
		}(i)
	}
	wg.Wait()

	return &PublicKey{Params: sk.Params, Polys: polys}
}

// composeWithT returns the Full polynomial over all n public variables that
// equals p(T(x)). The layer's vinegar variables are the first vi coordinates
// of T(x) and its oil variables the next oi.
//
// With z_v = Mv x + tv, z_o = Mo x + to and p = z_v^T A z_v + gv.z_v + d +
// z_v^T B z_o + go.z_o:
//
//	Q = Mv^T A Mv + Mv^T B Mo
//	L = (tv^T A + (A tv)^T) Mv + gv^T Mv + (B to)^T Mv + tv^T B Mo + go^T Mo
//	c = tv^T A tv + gv.tv + d + tv^T B to + go.to
func composeWithT(p *central.Polynomial, vi int, mt gf16.Matrix, vt gf16.Vector) *mq.Quadratic {
	n := len(vt)
	oi := len(p.Oil.L())

	mv, mo := mt[:vi], mt[vi:vi+oi]
	tv, to := vt[:vi], vt[vi:vi+oi]
	a, gv := p.Vinegar.Q(), p.Vinegar.L()
	b, gov := p.Mixed.Q(), p.Oil.L()

	mvT := gf16.Transpose(mv)

	// Quadratic block.
	q := gf16.AddMatrices(
		gf16.MatrixMul(gf16.MatrixMul(mvT, a), mv),
		gf16.MatrixMul(gf16.MatrixMul(mvT, b), mo),
	)
	quad := mq.NewFull(q, gf16.NewVector(n), 0)

	// Cross terms between the translation and the linear part of T.
	l := gf16.VectorTimesMatrix(gf16.AddVectors(gf16.VectorTimesMatrix(tv, a), gf16.MatrixTimesVector(a, tv)), mv)
	l = gf16.AddVectors(l, gf16.VectorTimesMatrix(gv, mv))
	l = gf16.AddVectors(l, gf16.VectorTimesMatrix(gf16.MatrixTimesVector(b, to), mv))
	l = gf16.AddVectors(l, gf16.VectorTimesMatrix(gf16.VectorTimesMatrix(tv, b), mo))
	l = gf16.AddVectors(l, gf16.VectorTimesMatrix(gov, mo))
	linear := mq.NewFull(gf16.NewMatrix(n, n), l, 0)

	// The constant is p evaluated at the translation.
	c := p.Eval(tv, to)
	constant := mq.NewFull(gf16.NewMatrix(n, n), gf16.NewVector(n), c)

	return mq.Combine(mq.Combine(quad, linear), constant)
}
