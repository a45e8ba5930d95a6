// Package metrics は学習済みモデルの評価指標を提供します。
package metrics

import (
	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/multilabel"
	"github.com/gomlkit/gomlkit/pkg/errors"
)

// Jaccard は2つのマルチラベル列の平均Jaccard係数を計算する
//
// 各ペアについて |A ∩ B| / |A ∪ B| を計算し、平均を返します。
// 両方が空集合のペアは類似度1として扱います。
func Jaccard(yTrue, yPred []multilabel.MultiLabel) (float64, error) {
	// 入力検証
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewInvalidArgumentError("Jaccard", "empty input", nil)
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Jaccard", n, len(yPred))
	}

	var sum float64
	for i := 0; i < n; i++ {
		inter := 0
		for _, name := range yTrue[i].Names() {
			if yPred[i].Contains(name) {
				inter++
			}
		}
		union := yTrue[i].Len() + yPred[i].Len() - inter
		if union == 0 {
			sum += 1.0
			continue
		}
		sum += float64(inter) / float64(union)
	}
	return sum / float64(n), nil
}

// HammingLoss はラベル次元ごとの誤り率を計算する
//
// domain 中の各ラベルについて、真の集合と予測集合の包含が食い違う回数を
// 数え、(サンプル数 × ラベル数) で割ります。
func HammingLoss(yTrue, yPred []multilabel.MultiLabel, domain []string) (float64, error) {
	// 入力検証
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewInvalidArgumentError("HammingLoss", "empty input", nil)
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("HammingLoss", n, len(yPred))
	}
	if len(domain) == 0 {
		return 0, errors.NewInvalidArgumentError("HammingLoss", "empty label domain", nil)
	}

	wrong := 0
	for i := 0; i < n; i++ {
		for _, name := range domain {
			if yTrue[i].Contains(name) != yPred[i].Contains(name) {
				wrong++
			}
		}
	}
	return float64(wrong) / float64(n*len(domain)), nil
}

// MicroF1 はマイクロ平均のF1スコアを計算する
//
// 全ラベル次元のTP/FP/FNを合算してから precision と recall を求めます。
// 予測が一つも無い場合のF1は0とします。
func MicroF1(yTrue, yPred []multilabel.MultiLabel, domain []string) (float64, error) {
	// 入力検証
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewInvalidArgumentError("MicroF1", "empty input", nil)
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MicroF1", n, len(yPred))
	}
	if len(domain) == 0 {
		return 0, errors.NewInvalidArgumentError("MicroF1", "empty label domain", nil)
	}

	var tp, fp, fn int
	for i := 0; i < n; i++ {
		for _, name := range domain {
			t := yTrue[i].Contains(name)
			p := yPred[i].Contains(name)
			switch {
			case t && p:
				tp++
			case !t && p:
				fp++
			case t && !p:
				fn++
			}
		}
	}
	return f1(tp, fp, fn), nil
}

// MacroF1 はマクロ平均のF1スコアを計算する
//
// ラベル次元ごとにF1を求めてから単純平均します。
func MacroF1(yTrue, yPred []multilabel.MultiLabel, domain []string) (float64, error) {
	// 入力検証
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewInvalidArgumentError("MacroF1", "empty input", nil)
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MacroF1", n, len(yPred))
	}
	if len(domain) == 0 {
		return 0, errors.NewInvalidArgumentError("MacroF1", "empty label domain", nil)
	}

	var sum float64
	for _, name := range domain {
		var tp, fp, fn int
		for i := 0; i < n; i++ {
			t := yTrue[i].Contains(name)
			p := yPred[i].Contains(name)
			switch {
			case t && p:
				tp++
			case !t && p:
				fp++
			case t && !p:
				fn++
			}
		}
		sum += f1(tp, fp, fn)
	}
	return sum / float64(len(domain)), nil
}

func f1(tp, fp, fn int) float64 {
	if tp == 0 {
		return 0
	}
	precision := float64(tp) / float64(tp+fp)
	recall := float64(tp) / float64(tp+fn)
	return 2 * precision * recall / (precision + recall)
}

// Accuracy は単一ラベル予測の正解率を計算する
func Accuracy(yTrue, yPred []classification.Label) (float64, error) {
	// 入力検証
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewInvalidArgumentError("Accuracy", "empty input", nil)
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, len(yPred))
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue[i].Equal(yPred[i]) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}
