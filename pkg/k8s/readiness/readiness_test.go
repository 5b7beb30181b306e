// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package readiness_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/reanahub/reana-commons/pkg/k8s"
	"github.com/reanahub/reana-commons/pkg/k8s/readiness"
)

func node(name string, conditions ...corev1.NodeCondition) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status:     corev1.NodeStatus{Conditions: conditions},
	}
}

func jobs(n int) []client.Object {
	objs := make([]client.Object, 0, n)
	for i := 0; i < n; i++ {
		objs = append(objs, &batchv1.Job{ObjectMeta: metav1.ObjectMeta{Name: fmt.Sprintf("job-%d", i), Namespace: "default"}})
	}
	return objs
}

var _ = Describe("readiness", func() {
	ctx := context.Background()
	ready := corev1.NodeCondition{Type: corev1.NodeReady, Status: corev1.ConditionTrue}

	It("should be ready with healthy nodes and few jobs", func() {
		c := fake.NewClientBuilder().WithScheme(k8s.Scheme).
			WithObjects(node("a", ready, corev1.NodeCondition{Type: corev1.NodeMemoryPressure, Status: corev1.ConditionFalse})).
			WithObjects(jobs(2)...).
			Build()
		Expect(readiness.ReanaReady(ctx, logr.Discard(), c, 2)).To(BeTrue())
	})

	It("should not be ready if too many jobs exist", func() {
		c := fake.NewClientBuilder().WithScheme(k8s.Scheme).WithObjects(jobs(3)...).Build()
		Expect(readiness.ReanaReady(ctx, logr.Discard(), c, 2)).To(BeFalse())
	})

	DescribeTable("node conditions",
		func(cond corev1.NodeCondition, expected bool) {
			c := fake.NewClientBuilder().WithScheme(k8s.Scheme).WithObjects(node("a", cond)).Build()
			ok, err := readiness.CheckPredefinedConditions(ctx, c)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(Equal(expected))
		},
		Entry("ready", ready, true),
		Entry("not ready", corev1.NodeCondition{Type: corev1.NodeReady, Status: corev1.ConditionFalse}, false),
		Entry("disk pressure", corev1.NodeCondition{Type: corev1.NodeDiskPressure, Status: corev1.ConditionTrue}, false),
		Entry("no pid pressure", corev1.NodeCondition{Type: corev1.NodePIDPressure, Status: corev1.ConditionFalse}, true),
	)

	It("should treat failing conditions as not ready", func() {
		c := fake.NewClientBuilder().WithScheme(k8s.Scheme).Build()
		failing := func(context.Context, client.Client) (bool, error) { return false, errors.New("unreachable") }
		Expect(readiness.Check(ctx, logr.Discard(), c, readiness.CheckPredefinedConditions, failing)).To(BeFalse())
	})
})
